package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ZipEntry is one file in a test archive.
type ZipEntry struct {
	Content string
	Mode    os.FileMode
}

// ZipBytes builds an in-memory zip archive. Entries are written in name
// order so the output is deterministic.
func ZipBytes(t *testing.T, files map[string]ZipEntry) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range names {
		entry := files[name]
		mode := entry.Mode
		if mode == 0 {
			mode = 0o644
		}

		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		header.SetMode(mode)

		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to write header for %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entry.Content)); err != nil {
			t.Fatalf("failed to write content for %s: %v", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish archive: %v", err)
	}
	return buf.Bytes()
}

// WriteZip writes a zip archive into a temp dir and returns its path.
func WriteZip(t *testing.T, files map[string]ZipEntry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.zip")
	if err := os.WriteFile(path, ZipBytes(t, files), 0o644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}
	return path
}

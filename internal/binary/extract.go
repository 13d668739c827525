package binary

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Extractor unpacks an archive into a directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Extractor modes accepted by SelectExtractor.
const (
	ExtractorNative  = "native"
	ExtractorBuiltin = "builtin"
	ExtractorAuto    = "auto"
)

// SelectExtractor returns the extractor for mode on the given normalized
// platform. Auto prefers the native tool and falls back to the built-in
// decoder when the tool is not on PATH.
func SelectExtractor(mode, platformName string, logger zerolog.Logger) (Extractor, error) {
	native := NewNativeExtractor(platformName)

	switch mode {
	case "", ExtractorNative:
		return native, nil
	case ExtractorBuiltin:
		return NewZipExtractor(), nil
	case ExtractorAuto:
		tool, _ := native.Command("", "")
		if _, err := exec.LookPath(tool); err != nil {
			logger.Debug().Str("tool", tool).Msg("native archive tool not found, using built-in extractor")
			return NewZipExtractor(), nil
		}
		return native, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want native, builtin or auto)", mode)
	}
}

// ZipExtractor decodes zip archives in-process.
type ZipExtractor struct{}

// NewZipExtractor creates a new in-process extractor
func NewZipExtractor() *ZipExtractor {
	return &ZipExtractor{}
}

// Extract unpacks archivePath into destDir. Entries that would land outside
// destDir are rejected.
func (e *ZipExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return &ExtractionFailedError{Message: "open archive", Err: err}
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return &ExtractionFailedError{Message: "create dest dir", Err: err}
	}

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return &ExtractionFailedError{Message: "cancelled", Err: err}
		}

		target, err := sanitizePath(destDir, f.Name)
		if err != nil {
			return &ExtractionFailedError{Message: "illegal entry", Err: err}
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return &ExtractionFailedError{Message: "create directory " + f.Name, Err: err}
			}
			continue
		}

		if err := writeZipEntry(f, target); err != nil {
			return &ExtractionFailedError{Message: "write " + f.Name, Err: err}
		}
	}

	return nil
}

func writeZipEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}

	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// sanitizePath joins name onto destDir and rejects results outside destDir.
func sanitizePath(destDir, name string) (string, error) {
	base := filepath.Clean(destDir)
	target := filepath.Join(base, name)
	if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return target, nil
}

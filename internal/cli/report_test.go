package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ziro-dev/ziro-dist/internal/binary"
	"github.com/ziro-dev/ziro-dist/internal/platform"
)

func TestWriteFailureReport(t *testing.T) {
	var buf bytes.Buffer
	writeFailureReport(&buf, &installError{
		Version: "0.4.2",
		Source:  binary.DefaultSource,
		Err: fmt.Errorf("download linux-x86_64.zip: %w", &binary.DownloadFailedError{
			StatusCode: 404,
			URL:        "https://github.com/ziro-dev/ziro/releases/download/v0.4.2/linux-x86_64.zip",
		}),
	})

	out := buf.String()
	for _, want := range append([]string{
		"Failed to install ziro 0.4.2",
		"HTTP 404",
		"No archive is published at https://github.com/ziro-dev/ziro/releases/download/v0.4.2/linux-x86_64.zip",
		"Likely causes:",
		"To continue:",
		"cargo install ziro",
		"Build from source: https://github.com/ziro-dev/ziro",
	}, likelyCauses...) {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server_error",
			err:  &binary.DownloadFailedError{StatusCode: 503, URL: "u"},
			want: "HTTP 503",
		},
		{
			name: "network",
			err:  &binary.NetworkError{URL: "https://example.com/a.zip", Err: errors.New("refused")},
			want: "Could not reach https://example.com/a.zip",
		},
		{
			name: "platform",
			err:  fmt.Errorf("detect: %w", &platform.UnsupportedPlatformError{Raw: "freebsd"}),
			want: `not "freebsd"`,
		},
		{
			name: "architecture",
			err:  &platform.UnsupportedArchitectureError{Raw: "ia32"},
			want: `not "ia32"`,
		},
		{
			name: "extraction",
			err:  &binary.ExtractionFailedError{Message: "unzip exited with status 9"},
			want: "--extractor builtin",
		},
		{
			name: "missing_binary",
			err:  &binary.BinaryNotFoundError{Path: "/pkg/bin/ziro"},
			want: "did not contain",
		},
		{
			name: "permission",
			err:  &binary.PermissionError{Path: "/pkg/bin/ziro", Err: errors.New("denied")},
			want: "not writable",
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hint() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hint() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ziro-dev/ziro-dist/internal/platform"
)

// NativeExtractor shells out to the host's archive tool: Expand-Archive
// through PowerShell on Windows, unzip everywhere else. The tool's output is
// passed through so the user sees it.
type NativeExtractor struct {
	platform string
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	// command is exec.CommandContext outside of tests.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewNativeExtractor creates an extractor for a normalized platform name.
func NewNativeExtractor(platformName string) *NativeExtractor {
	return &NativeExtractor{
		platform: platformName,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		command:  exec.CommandContext,
	}
}

// Command returns the program and arguments used to unpack archivePath.
func (e *NativeExtractor) Command(archivePath, destDir string) (string, []string) {
	if e.platform == platform.Windows {
		script := fmt.Sprintf("Expand-Archive -LiteralPath %s -DestinationPath %s -Force",
			psQuote(archivePath), psQuote(destDir))
		return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", script}
	}
	return "unzip", []string{"-o", "-q", archivePath, "-d", destDir}
}

// Extract runs the native tool and blocks until it exits.
func (e *NativeExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	name, args := e.Command(archivePath, destDir)

	//nolint:gosec // G204: program is fixed, paths come from the installer
	cmd := e.command(ctx, name, args...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExtractionFailedError{
				Message: fmt.Sprintf("%s exited with status %d", name, exitErr.ExitCode()),
				Err:     err,
			}
		}
		return &ExtractionFailedError{Message: "run " + name, Err: err}
	}

	return nil
}

// psQuote single-quotes s for PowerShell.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

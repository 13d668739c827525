// Package launcher runs the installed ziro binary on behalf of the package's
// entry point, passing through arguments, stdio, environment, exit status
// and terminating signal.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/ziro-dev/ziro-dist/internal/binary"
)

// ErrBinaryMissing is returned by Run when the installed binary is absent.
var ErrBinaryMissing = errors.New("ziro binary is not installed")

// ReinstallMessage is printed when the binary is missing.
const ReinstallMessage = "ziro: the native binary was not found. " +
	"Reinstall the package (npm install -g ziro) to download it again."

// Outcome is how the child process ended.
type Outcome struct {
	Code int
	// Signal is set when the child was terminated by a signal.
	Signal os.Signal
}

// Options configures a Launcher.
type Options struct {
	// BinaryPath defaults to bin/ziro next to the running executable.
	BinaryPath string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     zerolog.Logger
}

// Launcher delegates execution to the installed binary.
type Launcher struct {
	binaryPath string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	logger     zerolog.Logger
}

// New creates a launcher.
func New(opts Options) (*Launcher, error) {
	l := &Launcher{
		binaryPath: opts.BinaryPath,
		stdin:      opts.Stdin,
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		logger:     opts.Logger,
	}

	if l.binaryPath == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate launcher executable: %w", err)
		}
		path, err := BinaryPath(exe)
		if err != nil {
			return nil, err
		}
		l.binaryPath = path
	}

	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}

	return l, nil
}

// BinaryPath returns bin/ziro[.exe] in the directory holding exe, after
// resolving symlinks on exe.
func BinaryPath(exe string) (string, error) {
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", exe, err)
	}

	name := binary.BinaryName
	if runtime.GOOS == "windows" {
		name += binary.WindowsSuffix
	}
	return filepath.Join(filepath.Dir(resolved), "bin", name), nil
}

// Run starts the binary with args and waits for it. Interrupt and terminate
// signals received meanwhile are forwarded to the child.
func (l *Launcher) Run(ctx context.Context, args []string) (Outcome, error) {
	if _, err := os.Stat(l.binaryPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Outcome{Code: 1}, ErrBinaryMissing
		}
		return Outcome{Code: 1}, fmt.Errorf("stat %s: %w", l.binaryPath, err)
	}

	//nolint:gosec // G204: the binary path is fixed by the installation layout
	cmd := exec.CommandContext(ctx, l.binaryPath, args...)
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	cmd.Env = os.Environ()

	l.logger.Debug().Str("binary", l.binaryPath).Strs("args", args).Msg("launching")

	if err := cmd.Start(); err != nil {
		return Outcome{Code: 1}, fmt.Errorf("start %s: %w", l.binaryPath, err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, forwardedSignals...)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigs:
				l.logger.Debug().Str("signal", sig.String()).Msg("forwarding signal")
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	waitErr := cmd.Wait()
	signal.Stop(sigs)
	close(done)

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Outcome{Code: 1}, fmt.Errorf("wait for %s: %w", l.binaryPath, waitErr)
		}
	}

	return outcomeOf(cmd.ProcessState), nil
}

func outcomeOf(state *os.ProcessState) Outcome {
	if sig, ok := terminatingSignal(state); ok {
		return Outcome{Code: 128 + signalNumber(sig), Signal: sig}
	}

	code := state.ExitCode()
	if code < 0 {
		code = 0
	}
	return Outcome{Code: code}
}

// Exit terminates the current process the way the child ended: by raising
// the same signal, or with the same exit code.
func Exit(o Outcome) {
	if o.Signal != nil {
		raise(o.Signal)
	}
	os.Exit(o.Code)
}

// Main is the launcher entry point.
func Main(args []string) {
	l, err := New(Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ziro: %v\n", err)
		os.Exit(1)
	}

	outcome, err := l.Run(context.Background(), args)
	switch {
	case errors.Is(err, ErrBinaryMissing):
		fmt.Fprintln(os.Stderr, ReinstallMessage)
	case err != nil:
		fmt.Fprintf(os.Stderr, "ziro: %v\n", err)
	}

	Exit(outcome)
}

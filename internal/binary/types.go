package binary

import (
	"time"
)

const (
	// BinaryName is the executable shipped in every release archive.
	BinaryName = "ziro"
	// WindowsSuffix is appended to BinaryName on Windows.
	WindowsSuffix = ".exe"
)

// Progress reports how much of an archive has been written to disk.
type Progress struct {
	Received int64
	// Total is -1 when the server did not send Content-Length.
	Total int64
	// Percent is in [0, 100], or -1 when Total is unknown.
	Percent float64
	// Done is set on the final event of a successful download.
	Done bool
}

// HasTotal reports whether the expected size is known.
func (p Progress) HasTotal() bool {
	return p.Total >= 0
}

// ProgressFunc receives progress events. It is called synchronously from
// the download loop and must not block for long.
type ProgressFunc func(Progress)

// InstallResult describes the finalized binary.
type InstallResult struct {
	BinaryPath  string
	Executable  bool
	Version     string
	ArchiveName string
	URL         string
	Duration    time.Duration
}

// Clock provides time operations. This interface enables deterministic testing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

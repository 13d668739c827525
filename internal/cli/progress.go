package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"

	"github.com/ziro-dev/ziro-dist/internal/binary"
)

const (
	progressBarWidth = 40
	// Plain output prints at most one line per step.
	plainPercentStep = 10
	plainBytesStep   = 1 << 20
)

// isTerminal checks if the given writer is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// progressRenderer turns download events into terminal output: a redrawn
// bar on a TTY, sparse log-friendly lines otherwise.
type progressRenderer struct {
	w   io.Writer
	tty bool
	bar progress.Model

	nextPercent float64
	nextBytes   int64
}

func newProgressRenderer(w io.Writer, tty bool) *progressRenderer {
	return &progressRenderer{
		w:   w,
		tty: tty,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(progressBarWidth),
		),
		nextPercent: plainPercentStep,
		nextBytes:   plainBytesStep,
	}
}

// Update renders one event. It matches binary.ProgressFunc.
func (r *progressRenderer) Update(p binary.Progress) {
	if r.tty {
		r.drawBar(p)
		return
	}
	r.printLine(p)
}

func (r *progressRenderer) drawBar(p binary.Progress) {
	if p.HasTotal() && p.Percent >= 0 {
		fmt.Fprintf(r.w, "\r%s %s / %s", r.bar.ViewAs(p.Percent/100),
			formatBytes(p.Received), formatBytes(p.Total))
	} else {
		fmt.Fprintf(r.w, "\rdownloaded %s", formatBytes(p.Received))
	}
	if p.Done {
		fmt.Fprintln(r.w)
	}
}

func (r *progressRenderer) printLine(p binary.Progress) {
	if p.HasTotal() && p.Percent >= 0 {
		if p.Done {
			fmt.Fprintf(r.w, "downloading: 100%% (%s)\n", formatBytes(p.Received))
			return
		}
		if p.Percent >= r.nextPercent && p.Percent < 100 {
			fmt.Fprintf(r.w, "downloading: %d%%\n", int(p.Percent))
			for r.nextPercent <= p.Percent {
				r.nextPercent += plainPercentStep
			}
		}
		return
	}

	if p.Done {
		fmt.Fprintf(r.w, "downloaded %s\n", formatBytes(p.Received))
		return
	}
	if p.Received >= r.nextBytes {
		fmt.Fprintf(r.w, "downloaded %s\n", formatBytes(p.Received))
		for r.nextBytes <= p.Received {
			r.nextBytes += plainBytesStep
		}
	}
}

// formatBytes formats a byte count into a human-readable string (KB, MB, GB).
func formatBytes(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

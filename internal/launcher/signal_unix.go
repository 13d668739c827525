//go:build unix

package launcher

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

var forwardedSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}

func terminatingSignal(state *os.ProcessState) (os.Signal, bool) {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return nil, false
	}
	return ws.Signal(), true
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(unix.Signal); ok {
		return int(s)
	}
	return 0
}

// raise ends the current process by sig under its default disposition. It
// returns only if that did not terminate us.
func raise(sig os.Signal) {
	s, ok := sig.(unix.Signal)
	if !ok {
		return
	}

	// Reset first: it reinstalls the runtime handler, which dieBy replaces.
	signal.Reset(s)
	dieBy(s)
}

//go:build windows

package launcher

import (
	"os"
)

var forwardedSignals = []os.Signal{os.Interrupt}

// Windows reports no terminating signal; the exit code carries everything.
func terminatingSignal(state *os.ProcessState) (os.Signal, bool) {
	return nil, false
}

func signalNumber(sig os.Signal) int {
	return 0
}

func raise(sig os.Signal) {}

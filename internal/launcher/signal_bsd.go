//go:build unix && !linux

package launcher

import (
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// dieBy replaces the process image with a shell that kills itself with s.
// exec restores caught signals to their default action and keeps our pid,
// so the parent observes termination by s.
func dieBy(s unix.Signal) {
	script := "kill -" + strconv.Itoa(int(s)) + " $$"
	_ = unix.Exec("/bin/sh", []string{"sh", "-c", script}, nil)

	_ = unix.Kill(unix.Getpid(), s)
	time.Sleep(100 * time.Millisecond)
}

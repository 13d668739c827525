//go:build linux

package launcher

import (
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// kernelSigaction covers struct sigaction on the ABIs ziro ships for. The
// zero value is SIG_DFL with no flags and an empty mask.
type kernelSigaction [8]uintptr

const kernelSigsetSize = 8

// dieBy installs SIG_DFL for s at the kernel level, bypassing the Go runtime
// handler, unblocks it on this thread and sends it to this thread.
func dieBy(s unix.Signal) {
	runtime.LockOSThread()

	var act kernelSigaction
	_, _, _ = unix.RawSyscall6(unix.SYS_RT_SIGACTION, uintptr(s),
		uintptr(unsafe.Pointer(&act)), 0, kernelSigsetSize, 0, 0)

	var set unix.Sigset_t
	n := uint(s) - 1
	width := uint(unsafe.Sizeof(set.Val[0])) * 8
	set.Val[n/width] |= 1 << (n % width)
	_ = unix.PthreadSigmask(unix.SIG_UNBLOCK, &set, nil)

	if err := unix.Tgkill(unix.Getpid(), unix.Gettid(), s); err != nil {
		_ = unix.Kill(unix.Getpid(), s)
	}
	time.Sleep(100 * time.Millisecond)
}

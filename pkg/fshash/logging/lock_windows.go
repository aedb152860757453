//go:build windows

package logging

import "golang.org/x/sys/windows"

// lock acquires an exclusive lock on the log file region.
func (w *RotatingWriter) lock() error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(w.file.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK, 0, ^uint32(0), ^uint32(0), ol)
}

// unlock releases the lock on the log file region.
func (w *RotatingWriter) unlock() {
	ol := new(windows.Overlapped)
	// ignore unlock errors
	_ = windows.UnlockFileEx(windows.Handle(w.file.Fd()), 0, ^uint32(0), ^uint32(0), ol)
}

// SPDX-License-Identifier: MPL-2.0

//go:build unix

package filelock

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// Lock holds a blocking exclusive flock on a well-known file, serializing
// concurrent writers across processes. The zero-byte lock file is harmless
// if orphaned: the kernel releases the flock when the fd closes, including
// on a crash.
type Lock struct {
	file *os.File
}

// Acquire opens (or creates) path and blocks until an exclusive flock is
// held.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &Lock{file: f}, nil
}

// Release unlocks and closes the lock file. Safe to call on a nil Lock.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		slog.Debug("filelock: unlock failed", "error", err)
	}
	if err := l.file.Close(); err != nil {
		slog.Debug("filelock: close failed", "error", err)
	}
	l.file = nil
}

// SPDX-License-Identifier: MPL-2.0

//go:build unix

package daemon

import "golang.org/x/sys/unix"

// processAlive sends signal 0 to pid, the portable way to probe a process's
// existence without affecting it.
func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil
}

// SPDX-License-Identifier: MPL-2.0

//go:build unix

package cacheclient

import "syscall"

// detachedProcAttr starts the daemon in its own session so it survives the
// parent command process exiting.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

// SPDX-License-Identifier: MPL-2.0

// Package daemon implements the background recipe-cache daemon: PID-file
// singleton election, periodic refresh, heartbeat-driven idle shutdown,
// atomic cache writes, and signal-triggered clean shutdown (C8: Cache
// daemon).
package daemon

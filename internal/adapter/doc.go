// SPDX-License-Identifier: MPL-2.0

// Package adapter wraps the subprocess client for the two adapter
// operations: get-active and activate (C4: Adapter client).
package adapter

// SPDX-License-Identifier: MPL-2.0

// Package filelock provides a best-effort cross-process exclusive lock used
// to serialize concurrent read-modify-write updates to a single
// environment's meta.json.
package filelock

// SPDX-License-Identifier: MPL-2.0

// Package envstore manages the on-disk environment directory layout: the
// name-matched symlink, migration from the legacy bare-symlink form, and
// idempotent creation (C5: Environment store).
package envstore

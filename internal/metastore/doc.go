// SPDX-License-Identifier: MPL-2.0

// Package metastore manages per-environment statistics: activation count,
// last-activated instant, originating cookbook, and description, with
// migration from a legacy centralized usage-stats file (C6: Metadata
// store).
package metastore

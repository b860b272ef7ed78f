// SPDX-License-Identifier: MPL-2.0

// Package plugin discovers out-of-process cookbook, adapter, and bridge
// helper programs by filename convention (C1: Plugin discoverer).
package plugin

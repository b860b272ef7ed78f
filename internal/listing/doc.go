// SPDX-License-Identifier: MPL-2.0

// Package listing composes cookbook outputs into the aggregated recipe
// list and the frecency-ordered environment list (C7: Listing pipeline).
package listing

// SPDX-License-Identifier: MPL-2.0

// Package frecency computes the compound recency/frequency score used to
// order environment listings.
package frecency

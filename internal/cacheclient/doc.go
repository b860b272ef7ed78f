// SPDX-License-Identifier: MPL-2.0

// Package cacheclient implements list-all's fast path: read the daemon's
// recipe cache when fresh, otherwise ensure the daemon is running and fall
// back to a synchronous listing (C9: Cache client).
package cacheclient

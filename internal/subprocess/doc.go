// SPDX-License-Identifier: MPL-2.0

// Package subprocess invokes a plugin executable and captures its result,
// enforcing UTF-8 and exit-status conventions shared by every plugin family
// (C2: Subprocess client).
package subprocess

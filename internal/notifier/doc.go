// SPDX-License-Identifier: MPL-2.0

// Package notifier sends desktop notifications for success and error
// events, falling back to stderr when the notification service is
// unavailable (C11: Notifier).
package notifier

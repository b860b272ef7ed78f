// SPDX-License-Identifier: MPL-2.0

package notifier

import (
	"context"
	"fmt"
	"os"

	"github.com/kantord/enwiro/internal/subprocess"
)

// Notifier is the capability set command handlers use to report outcomes.
// A real implementation reaches the desktop notification bus; a capturing
// double is used in tests.
type Notifier interface {
	NotifySuccess(ctx context.Context, title, body string)
	NotifyError(ctx context.Context, title, body string)
}

// Desktop sends notifications via the notify-send CLI (no Go desktop
// notification library is part of this project's dependency stack), and
// falls back to stderr if the send fails — e.g. no notification bus is
// running, or notify-send is not installed.
type Desktop struct{}

var _ Notifier = Desktop{}

func (Desktop) NotifySuccess(ctx context.Context, title, body string) {
	send(ctx, "dialog-information", title, body)
}

func (Desktop) NotifyError(ctx context.Context, title, body string) {
	send(ctx, "dialog-error", title, body)
}

func send(ctx context.Context, icon, title, body string) {
	if _, err := subprocess.Run(ctx, "notify-send", "--icon", icon, title, body); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", title, body)
	}
}

// Recording is an in-memory Notifier double for tests.
type Recording struct {
	Successes []Message
	Errors    []Message
}

// Message is one recorded notification.
type Message struct {
	Title string
	Body  string
}

var _ Notifier = (*Recording)(nil)

func (r *Recording) NotifySuccess(_ context.Context, title, body string) {
	r.Successes = append(r.Successes, Message{Title: title, Body: body})
}

func (r *Recording) NotifyError(_ context.Context, title, body string) {
	r.Errors = append(r.Errors, Message{Title: title, Body: body})
}

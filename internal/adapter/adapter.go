// SPDX-License-Identifier: MPL-2.0

package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/kantord/enwiro/internal/subprocess"
)

// Client invokes a single adapter executable.
type Client struct {
	ShortName string
	Path      string
}

// New returns a Client for the adapter at path under the given short name.
func New(shortName, path string) *Client {
	return &Client{ShortName: shortName, Path: path}
}

// GetActiveEnvironmentName returns the currently active environment name,
// or "" if none is active.
func (c *Client) GetActiveEnvironmentName(ctx context.Context) (string, error) {
	result, err := subprocess.Run(ctx, c.Path, "get-active")
	if err != nil {
		return "", fmt.Errorf("adapter %q: get-active failed: %w", c.ShortName, err)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// Activate asks the adapter to switch the window manager to name.
func (c *Client) Activate(ctx context.Context, name string) error {
	if _, err := subprocess.Run(ctx, c.Path, "activate", name); err != nil {
		return fmt.Errorf("adapter %q: activate %q failed: %w", c.ShortName, name, err)
	}
	return nil
}

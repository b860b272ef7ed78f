// SPDX-License-Identifier: MPL-2.0

package cookbook

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kantord/enwiro/internal/subprocess"
)

// DefaultPriority is used when a cookbook's metadata is absent, empty, or
// does not parse.
const DefaultPriority = 50

// Recipe is a blueprint for an environment offered by a cookbook.
type Recipe struct {
	Name        string
	Description string
	HasDesc     bool
	Origin      string
}

// Client invokes a single cookbook executable.
type Client struct {
	ShortName string
	Path      string
}

// New returns a Client for the cookbook at path under the given short name.
func New(shortName, path string) *Client {
	return &Client{ShortName: shortName, Path: path}
}

// Metadata returns the cookbook's declared priority. Any failure to invoke,
// empty stdout, or unparseable JSON yields DefaultPriority without error,
// per the protocol's tolerance for missing metadata.
func (c *Client) Metadata(ctx context.Context) int {
	result, err := subprocess.Run(ctx, c.Path, "metadata")
	if err != nil {
		return DefaultPriority
	}

	trimmed := strings.TrimSpace(result.Stdout)
	if trimmed == "" {
		return DefaultPriority
	}

	var parsed struct {
		DefaultPriority *int `json:"defaultPriority"`
	}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return DefaultPriority
	}
	if parsed.DefaultPriority == nil {
		return DefaultPriority
	}
	return *parsed.DefaultPriority
}

// ListRecipes invokes list-recipes and parses the JSON-lines response,
// preserving line order. A malformed line rejects the whole response.
func (c *Client) ListRecipes(ctx context.Context) ([]Recipe, error) {
	result, err := subprocess.Run(ctx, c.Path, "list-recipes")
	if err != nil {
		return nil, fmt.Errorf("cookbook %q: list-recipes failed: %w", c.ShortName, err)
	}

	var recipes []Recipe
	for _, line := range strings.Split(result.Stdout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var parsed struct {
			Name        string  `json:"name"`
			Description *string `json:"description"`
		}
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			return nil, fmt.Errorf("cookbook %q: malformed recipe line %q: %w", c.ShortName, line, err)
		}
		if parsed.Name == "" || strings.ContainsAny(parsed.Name, "\x00\n") {
			return nil, fmt.Errorf("cookbook %q: invalid recipe name %q", c.ShortName, parsed.Name)
		}

		recipe := Recipe{Name: parsed.Name, Origin: c.ShortName}
		if parsed.Description != nil {
			recipe.Description = *parsed.Description
			recipe.HasDesc = true
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

// Cook invokes cook <name> and returns the trimmed absolute path to the
// materialized working directory.
func (c *Client) Cook(ctx context.Context, name string) (string, error) {
	result, err := subprocess.Run(ctx, c.Path, "cook", name)
	if err != nil {
		return "", fmt.Errorf("cookbook %q: cook %q failed: %w", c.ShortName, name, err)
	}

	trimmed := strings.TrimSpace(result.Stdout)
	if trimmed == "" {
		return "", fmt.Errorf("cookbook %q: cook %q returned an empty path", c.ShortName, name)
	}
	if !filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("cookbook %q: cook %q returned a relative path %q", c.ShortName, name, trimmed)
	}

	return trimmed, nil
}

// SPDX-License-Identifier: MPL-2.0

// Package config loads enwiro's global configuration from enwiro.toml and
// applies defaults. It corresponds to the global configuration record: the
// workspaces directory and the default adapter.
package config

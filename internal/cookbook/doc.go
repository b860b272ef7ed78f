// SPDX-License-Identifier: MPL-2.0

// Package cookbook wraps the subprocess client for the three cookbook
// subcommands: metadata, list-recipes, and cook (C3: Cookbook client).
package cookbook

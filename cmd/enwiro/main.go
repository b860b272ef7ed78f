// SPDX-License-Identifier: MPL-2.0

// Command enwiro binds window manager workspaces to project environments.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kantord/enwiro/internal/cmd"
	"github.com/kantord/enwiro/internal/issue"
)

func main() {
	verbose := false
	level := slog.LevelInfo
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
			level = slog.LevelDebug
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	app, err := cmd.NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorForDisplay(err, verbose))
		os.Exit(1)
	}

	root := cmd.NewRootCommand(app)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorForDisplay(err, verbose))
		os.Exit(1)
	}
}

// formatErrorForDisplay renders an ActionableError with its suggestions
// and, in verbose mode, its full error chain; any other error falls back
// to its plain Error() text.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

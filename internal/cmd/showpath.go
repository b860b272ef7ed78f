// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newShowPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show-path [name]",
		Short: "Print the resolved working directory for an environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runShowPath(c, app, args)
		},
	}
}

func runShowPath(c *cobra.Command, app *App, args []string) error {
	ctx := c.Context()

	explicit := ""
	if len(args) == 1 {
		explicit = args[0]
	}

	name, err := resolveCurrentEnvironmentName(ctx, app, explicit)
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Fprintln(c.OutOrStdout(), homeDir())
		return nil
	}

	path, _, ok, err := app.resolveOrCook(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		os.Exit(1)
	}

	fmt.Fprintln(c.OutOrStdout(), path)
	return nil
}

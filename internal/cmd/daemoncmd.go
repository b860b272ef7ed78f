// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/kantord/enwiro/internal/daemon"
	"github.com/spf13/cobra"
)

func newDaemonCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "daemon",
		Short:  "Run the background recipe-cache refresher",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			d, err := daemon.New(app.Pipeline, app.Clock)
			if err != nil {
				return err
			}
			return d.Run(c.Context())
		},
	}
	return cmd
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListEnvironmentsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list-environments",
		Short: "List existing environments ordered by frecency",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			summaries, err := app.Pipeline.ListEnvironments()
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Fprintln(c.OutOrStdout(), s.Name)
			}
			return nil
		},
	}
}

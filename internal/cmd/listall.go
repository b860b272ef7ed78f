// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/kantord/enwiro/internal/listing"
	"github.com/spf13/cobra"
)

func newListAllCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list-all",
		Short: "List environments and every cookbook's not-yet-cooked recipes",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			entries, err := app.Cache.ListAllFastPath(c.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintln(c.OutOrStdout(), formatListAllEntry(e))
			}
			return nil
		},
	}
}

func formatListAllEntry(e listing.Entry) string {
	if e.IsEnvironment {
		return e.Name
	}
	if e.HasDesc {
		return fmt.Sprintf("%s: %s\t%s", e.Cookbook, e.Name, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Cookbook, e.Name)
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the enwiro command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "enwiro",
		Short:         "Bind window manager workspaces to project environments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging and show full error chains")

	root.AddCommand(
		newWrapCommand(app),
		newActivateCommand(app),
		newShowPathCommand(app),
		newListEnvironmentsCommand(app),
		newListAllCommand(app),
		newDaemonCommand(app),
	)

	return root
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/kantord/enwiro/internal/issue"
	"github.com/spf13/cobra"
)

func newActivateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <name>",
		Short: "Cook (if needed) and switch the window manager to an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runActivate(c, app, args[0])
		},
	}
}

func runActivate(c *cobra.Command, app *App, name string) error {
	ctx := c.Context()

	_, envName, ok, err := app.resolveOrCook(ctx, name)
	if err != nil {
		app.Notify.NotifyError(ctx, "Failed to activate environment", err.Error())
		return issue.NewErrorContext().
			WithOperation("activate environment").
			WithResource(name).
			WithSuggestion("Run \"enwiro list-all\" to see available recipes").
			Wrap(err).
			BuildError()
	} else if !ok {
		err := fmt.Errorf("no environment or recipe named %q was found", name)
		app.Notify.NotifyError(ctx, "Failed to activate environment", err.Error())
		return issue.WrapWithContext(err, "activate environment", name)
	}

	adapterClient, err := app.adapterClient()
	if err != nil {
		app.Notify.NotifyError(ctx, "Failed to activate environment", err.Error())
		return issue.WrapWithOperation(err, "activate environment")
	}

	if err := adapterClient.Activate(ctx, envName); err != nil {
		app.Notify.NotifyError(ctx, "Failed to activate environment", err.Error())
		return issue.WrapWithContext(err, "activate environment", envName)
	}

	app.Meta.RecordActivation(envName)
	app.Notify.NotifySuccess(ctx, "Environment activated", envName)
	return nil
}

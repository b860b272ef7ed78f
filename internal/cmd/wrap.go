// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/kantord/enwiro/internal/issue"
	"github.com/spf13/cobra"
)

func newWrapCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:                "wrap <cmd> [-- <args>...]",
		Short:              "Run a command inside the current environment's working directory",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runWrap(c, app, args)
		},
	}
}

func runWrap(c *cobra.Command, app *App, args []string) error {
	ctx := c.Context()

	name, err := resolveCurrentEnvironmentName(ctx, app, "")
	if err != nil {
		return err
	}

	dir := homeDir()
	if name != "" {
		if path, envName, ok, err := app.resolveOrCook(ctx, name); err != nil {
			return issue.WrapWithContext(err, "resolve environment", name)
		} else if ok {
			dir = path
			name = envName
		}
	}

	cmdArgs := args[1:]
	if len(cmdArgs) > 0 && cmdArgs[0] == "--" {
		cmdArgs = cmdArgs[1:]
	}

	child := exec.CommandContext(ctx, args[0], cmdArgs...)
	child.Dir = dir
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Env = append(os.Environ(), fmt.Sprintf("ENWIRO_ENV=%s", name))

	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if ok := errorsAsExitError(err, &exitErr); ok {
			os.Exit(exitErr.ExitCode())
		}
		return issue.WrapWithOperation(err, "run wrapped command")
	}
	return nil
}

func errorsAsExitError(err error, target **exec.ExitError) bool {
	if exitErr, ok := err.(*exec.ExitError); ok {
		*target = exitErr
		return true
	}
	return false
}

// resolveCurrentEnvironmentName resolves the environment name an operation
// should act on: explicitArg if non-empty, otherwise the adapter's
// get-active result, falling back to "" (meaning $HOME) if neither
// resolves.
func resolveCurrentEnvironmentName(ctx context.Context, app *App, explicitArg string) (string, error) {
	if explicitArg != "" {
		return explicitArg, nil
	}

	adapterClient, err := app.adapterClient()
	if err != nil {
		return "", nil
	}
	active, err := adapterClient.GetActiveEnvironmentName(ctx)
	if err != nil {
		return "", nil
	}
	return active, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/"
	}
	return home
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWrapTestCommand() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func writeRecordingScript(t *testing.T, recordPath string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "record.sh")
	body := "#!/bin/sh\nprintf '%s\\n' \"$*\" > " + recordPath + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestRunWrapStripsSeparatorBeforeArgs(t *testing.T) {
	record := filepath.Join(t.TempDir(), "args.txt")
	script := writeRecordingScript(t, record)

	app := newTestApp(t, nil)
	c := newWrapTestCommand()

	err := runWrap(c, app, []string{script, "--", "-la"})
	require.NoError(t, err)

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "-la\n", string(got))
}

func TestRunWrapPassesArgsWithoutSeparator(t *testing.T) {
	record := filepath.Join(t.TempDir(), "args.txt")
	script := writeRecordingScript(t, record)

	app := newTestApp(t, nil)
	c := newWrapTestCommand()

	err := runWrap(c, app, []string{script, "alpha", "beta"})
	require.NoError(t, err)

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "alpha beta\n", string(got))
}

func TestRunWrapReturnsErrorForMissingCommand(t *testing.T) {
	app := newTestApp(t, nil)
	c := newWrapTestCommand()

	err := runWrap(c, app, []string{filepath.Join(t.TempDir(), "does-not-exist")})
	require.Error(t, err)
}

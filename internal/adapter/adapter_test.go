// SPDX-License-Identifier: MPL-2.0

package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeAdapter(t *testing.T, script string) *Client {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "enwiro-adapter-fake")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return New("fake", path)
}

func TestGetActiveEnvironmentNameTrimsWhitespace(t *testing.T) {
	a := writeFakeAdapter(t, `
case "$1" in
get-active) echo "  beta  " ;;
esac
`)

	name, err := a.GetActiveEnvironmentName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "beta", name)
}

func TestGetActiveEnvironmentNameEmptyMeansNone(t *testing.T) {
	a := writeFakeAdapter(t, `
case "$1" in
get-active) echo "" ;;
esac
`)

	name, err := a.GetActiveEnvironmentName(context.Background())
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestActivateFailsOnNonZeroExit(t *testing.T) {
	a := writeFakeAdapter(t, `exit 1`)

	err := a.Activate(context.Background(), "beta")
	require.Error(t, err)
}

func TestActivateSucceeds(t *testing.T) {
	a := writeFakeAdapter(t, `exit 0`)

	err := a.Activate(context.Background(), "beta")
	require.NoError(t, err)
}

// SPDX-License-Identifier: MPL-2.0

package cookbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeCookbook(t *testing.T, script string) *Client {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "enwiro-cookbook-fake")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return New("fake", path)
}

func TestMetadataReadsDefaultPriority(t *testing.T) {
	c := writeFakeCookbook(t, `
case "$1" in
metadata) echo '{"defaultPriority": 10}' ;;
esac
`)
	assert.Equal(t, 10, c.Metadata(context.Background()))
}

func TestMetadataFallsBackOnMissingField(t *testing.T) {
	c := writeFakeCookbook(t, `
case "$1" in
metadata) echo '{}' ;;
esac
`)
	assert.Equal(t, DefaultPriority, c.Metadata(context.Background()))
}

func TestMetadataFallsBackOnInvocationFailure(t *testing.T) {
	c := writeFakeCookbook(t, `exit 1`)
	assert.Equal(t, DefaultPriority, c.Metadata(context.Background()))
}

func TestMetadataFallsBackOnMalformedJSON(t *testing.T) {
	c := writeFakeCookbook(t, `echo 'not json'`)
	assert.Equal(t, DefaultPriority, c.Metadata(context.Background()))
}

func TestListRecipesPreservesOrder(t *testing.T) {
	c := writeFakeCookbook(t, `
case "$1" in
list-recipes)
  echo '{"name":"alpha"}'
  echo '{"name":"beta","description":"second"}'
  ;;
esac
`)

	recipes, err := c.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "alpha", recipes[0].Name)
	assert.False(t, recipes[0].HasDesc)
	assert.Equal(t, "beta", recipes[1].Name)
	assert.True(t, recipes[1].HasDesc)
	assert.Equal(t, "second", recipes[1].Description)
	assert.Equal(t, "fake", recipes[0].Origin)
}

func TestListRecipesIgnoresEmptyLines(t *testing.T) {
	c := writeFakeCookbook(t, `
case "$1" in
list-recipes)
  printf '{"name":"alpha"}\n\n{"name":"beta"}\n'
  ;;
esac
`)

	recipes, err := c.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestListRecipesRejectsMalformedLine(t *testing.T) {
	c := writeFakeCookbook(t, `
case "$1" in
list-recipes)
  echo 'not json'
  ;;
esac
`)

	_, err := c.ListRecipes(context.Background())
	require.Error(t, err)
}

func TestCookTrimsWhitespace(t *testing.T) {
	c := writeFakeCookbook(t, `
case "$1" in
cook) echo "  /tmp/beta  " ;;
esac
`)

	path, err := c.Cook(context.Background(), "beta")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/beta", path)
}

func TestCookRejectsRelativePath(t *testing.T) {
	c := writeFakeCookbook(t, `
case "$1" in
cook) echo "relative/path" ;;
esac
`)

	_, err := c.Cook(context.Background(), "beta")
	require.Error(t, err)
}

func TestCookRejectsEmptyPath(t *testing.T) {
	c := writeFakeCookbook(t, `
case "$1" in
cook) echo "" ;;
esac
`)

	_, err := c.Cook(context.Background(), "beta")
	require.Error(t, err)
}

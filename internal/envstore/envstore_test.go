// SPDX-License-Identifier: MPL-2.0

package envstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMakesDirectoryForm(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	s := New(root)

	require.NoError(t, s.Create("beta", target))

	info, err := os.Lstat(filepath.Join(root, "beta"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	resolved, ok, err := s.Resolve("beta")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, target, resolved)
}

func TestCreateIsIdempotent(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	s := New(root)

	require.NoError(t, s.Create("beta", target))
	require.NoError(t, s.Create("beta", target))

	entries, err := s.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateOverwritesDifferentTarget(t *testing.T) {
	root := t.TempDir()
	targetA := t.TempDir()
	targetB := t.TempDir()
	s := New(root)

	require.NoError(t, s.Create("beta", targetA))
	require.NoError(t, s.Create("beta", targetB))

	resolved, ok, err := s.Resolve("beta")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, targetB, resolved)
}

func TestMigratesLegacyBareSymlink(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	require.NoError(t, os.Symlink(target, filepath.Join(root, "beta")))

	s := New(root)
	require.NoError(t, s.Create("beta", target))

	info, err := os.Lstat(filepath.Join(root, "beta"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	inner, err := os.Readlink(filepath.Join(root, "beta", "beta"))
	require.NoError(t, err)
	assert.Equal(t, target, inner)
}

func TestResolveReadsLegacyForm(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	require.NoError(t, os.Symlink(target, filepath.Join(root, "beta")))

	s := New(root)
	resolved, ok, err := s.Resolve("beta")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, target, resolved)
}

func TestExistsFalseForMissing(t *testing.T) {
	s := New(t.TempDir())
	assert.False(t, s.Exists("nope"))
}

func TestListOrdersByName(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	require.NoError(t, s.Create("zeta", t.TempDir()))
	require.NoError(t, s.Create("alpha", t.TempDir()))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "zeta", entries[1].Name)
}

func TestListOnMissingRootReturnsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))
	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidNameRejectsSeparators(t *testing.T) {
	assert.Error(t, ValidName("a/b"))
	assert.Error(t, ValidName(""))
	assert.Error(t, ValidName("."))
	assert.Error(t, ValidName(".."))
	assert.NoError(t, ValidName("alpha"))
}

func TestFlattenNameReplacesSlashes(t *testing.T) {
	assert.Equal(t, "feature-foo", FlattenName("feature/foo"))
}

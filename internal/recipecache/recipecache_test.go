// SPDX-License-Identifier: MPL-2.0

package recipecache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kantord/enwiro/internal/cookbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.cache")
	want := File{
		WrittenAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Cookbooks: []CookbookRecipes{
			{ShortName: "git", Priority: 50, Recipes: []cookbook.Recipe{
				{Name: "beta", Description: "a beta env", HasDesc: true, Origin: "git"},
			}},
		},
	}

	require.NoError(t, Write(path, want))

	got, err := Read(path)
	require.NoError(t, err)
	assert.True(t, want.WrittenAt.Equal(got.WrittenAt))
	assert.Equal(t, want.Cookbooks, got.Cookbooks)
}

func TestWriteIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.cache")
	require.NoError(t, Write(path, File{}))

	entries, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.cache"))
	require.Error(t, err)
}

func TestEntriesFiltersExistingEnvironmentsAndPreservesOrder(t *testing.T) {
	f := File{
		Cookbooks: []CookbookRecipes{
			{ShortName: "git", Recipes: []cookbook.Recipe{
				{Name: "alpha", Origin: "git"},
				{Name: "beta", Origin: "git"},
			}},
			{ShortName: "docker", Recipes: []cookbook.Recipe{
				{Name: "gamma", Origin: "docker"},
			}},
		},
	}

	entries := f.Entries(map[string]bool{"beta": true})

	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "git", entries[0].Origin)
	assert.Equal(t, "gamma", entries[1].Name)
	assert.Equal(t, "docker", entries[1].Origin)
}

func TestEntriesEmptyCacheReturnsNil(t *testing.T) {
	var f File
	assert.Empty(t, f.Entries(nil))
}

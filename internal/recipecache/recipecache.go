// SPDX-License-Identifier: MPL-2.0

package recipecache

import (
	"encoding/json"
	"os"
	"time"

	"github.com/kantord/enwiro/internal/cookbook"
	"github.com/kantord/enwiro/internal/envstore"
	"github.com/kantord/enwiro/internal/rundir"
)

// CookbookRecipes is one cookbook's ordered recipes plus the priority that
// was used to place it in the aggregated listing.
type CookbookRecipes struct {
	ShortName string            `json:"shortName"`
	Priority  int               `json:"priority"`
	Recipes   []cookbook.Recipe `json:"recipes"`
}

// File is the full recipes.cache payload: the write instant plus every
// cookbook's recipes, already in the order the listing pipeline emits.
type File struct {
	WrittenAt time.Time         `json:"writtenAt"`
	Cookbooks []CookbookRecipes `json:"cookbooks"`
}

// Write serializes f to path using the atomic temp-file-then-rename
// discipline, so concurrent readers never observe partial content.
func Write(path string, f File) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return rundir.WriteAtomic(path, data, 0o644)
}

// Read deserializes the recipes.cache payload at path.
func Read(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// Entries flattens the cache's recipes into the per-cookbook order in which
// listing.Pipeline.ListAll emits them after the environments, filtering
// recipes already present as environments. Environments themselves are not
// included.
func (f File) Entries(existingEnvironments map[string]bool) []cookbook.Recipe {
	var out []cookbook.Recipe
	for _, cb := range f.Cookbooks {
		for _, r := range cb.Recipes {
			if existingEnvironments[envstore.FlattenName(r.Name)] {
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

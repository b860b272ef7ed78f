// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"context"
	"log/slog"
	"sort"

	"github.com/kantord/enwiro/internal/cookbook"
	"github.com/kantord/enwiro/internal/envstore"
	"github.com/kantord/enwiro/internal/frecency"
	"github.com/kantord/enwiro/internal/metastore"
	"github.com/kantord/enwiro/internal/recipecache"
	"github.com/kantord/enwiro/internal/testutil"
	"golang.org/x/sync/errgroup"
)

// CookbookClient is the capability set listing needs from a cookbook. Real
// callers pass *cookbook.Client; tests supply an in-memory fake.
type CookbookClient interface {
	Metadata(ctx context.Context) int
	ListRecipes(ctx context.Context) ([]cookbook.Recipe, error)
}

// EnvSummary is one entry in the frecency-ordered environment listing.
type EnvSummary struct {
	Name  string
	Path  string
	Score float64
}

// Entry is one entry in the combined list-all output: either an existing
// environment or a not-yet-cooked recipe.
type Entry struct {
	Cookbook      string
	Name          string
	Description   string
	HasDesc       bool
	IsEnvironment bool
}

// Pipeline composes the environment store, metadata store, and a set of
// discovered cookbook clients into the two listing operations.
type Pipeline struct {
	Envs      *envstore.Store
	Meta      *metastore.Store
	Cookbooks map[string]CookbookClient
	Clock     testutil.Clock
}

// ListEnvironments returns every environment ordered by frecency
// descending, tie-broken by name ascending.
func (p *Pipeline) ListEnvironments() ([]EnvSummary, error) {
	entries, err := p.Envs.List()
	if err != nil {
		return nil, err
	}

	now := p.Clock.Now()
	summaries := make([]EnvSummary, 0, len(entries))
	for _, e := range entries {
		stats := p.Meta.Load(e.Name)
		score := frecency.Score(stats.ActivationCount, stats.LastActivatedAt, now)
		summaries = append(summaries, EnvSummary{Name: e.Name, Path: e.Target, Score: score})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Score != summaries[j].Score {
			return summaries[i].Score > summaries[j].Score
		}
		return summaries[i].Name < summaries[j].Name
	})

	return summaries, nil
}

// cookbookSlot is a cookbook paired with its short name and priority, used
// to establish a deterministic sort key before recipes are fetched.
type cookbookSlot struct {
	shortName string
	client    CookbookClient
	priority  int
}

// ListAll returns environments first (in frecency order), then recipes
// from every discovered cookbook ordered by (priority ascending, short
// name ascending) with recipes already materialized as environments
// filtered out. A cookbook that fails to list recipes is skipped and
// logged; it never prevents other cookbooks' recipes from appearing.
func (p *Pipeline) ListAll(ctx context.Context) ([]Entry, error) {
	envSummaries, err := p.ListEnvironments()
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(envSummaries))
	for _, e := range envSummaries {
		existing[e.Name] = true
	}

	slots, recipesBySlot := p.fetchCookbookRecipes(ctx)

	entries := make([]Entry, 0, len(envSummaries))
	for _, e := range envSummaries {
		entries = append(entries, Entry{Name: e.Name, IsEnvironment: true})
	}

	for i := range slots {
		for _, r := range recipesBySlot[i] {
			if existing[envstore.FlattenName(r.Name)] {
				continue
			}
			entries = append(entries, Entry{
				Cookbook:    r.Origin,
				Name:        r.Name,
				Description: r.Description,
				HasDesc:     r.HasDesc,
			})
		}
	}

	return entries, nil
}

// BuildCache runs the same cookbook fan-out as ListAll but returns the raw
// per-cookbook recipe sets (unfiltered by existing environments) for the
// cache daemon to persist; filtering against the environment set happens
// at read time, since the set of existing environments can change between
// a cache write and a cache read.
func (p *Pipeline) BuildCache(ctx context.Context) recipecache.File {
	slots, recipesBySlot := p.fetchCookbookRecipes(ctx)

	file := recipecache.File{WrittenAt: p.Clock.Now()}
	for i, slot := range slots {
		file.Cookbooks = append(file.Cookbooks, recipecache.CookbookRecipes{
			ShortName: slot.shortName,
			Priority:  slot.priority,
			Recipes:   recipesBySlot[i],
		})
	}

	return file
}

// fetchCookbookRecipes discovers each cookbook's priority, sorts cookbooks
// by (priority ascending, short name ascending), then fetches every
// cookbook's recipes concurrently, placing results in a slot indexed by
// sorted position so join order never affects the returned order. A
// cookbook that fails to list recipes is logged and left with a nil slot,
// rather than failing the whole listing.
func (p *Pipeline) fetchCookbookRecipes(ctx context.Context) ([]cookbookSlot, [][]cookbook.Recipe) {
	slots := make([]cookbookSlot, 0, len(p.Cookbooks))
	for shortName, client := range p.Cookbooks {
		slots = append(slots, cookbookSlot{shortName: shortName, client: client, priority: client.Metadata(ctx)})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].priority != slots[j].priority {
			return slots[i].priority < slots[j].priority
		}
		return slots[i].shortName < slots[j].shortName
	})

	recipesBySlot := make([][]cookbook.Recipe, len(slots))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, slot := range slots {
		i, slot := i, slot
		group.Go(func() error {
			recipes, err := slot.client.ListRecipes(groupCtx)
			if err != nil {
				slog.Warn("listing: cookbook failed to list recipes, skipping", "cookbook", slot.shortName, "error", err)
				return nil
			}
			recipesBySlot[i] = recipes
			return nil
		})
	}
	// errgroup.Go's callbacks never return a non-nil error here (failures
	// are logged and swallowed per-cookbook), so Wait cannot fail. It is
	// still called to join every goroutine before reading recipesBySlot.
	_ = group.Wait()

	return slots, recipesBySlot
}

// SPDX-License-Identifier: MPL-2.0

// Package cmd wires the public command surface (wrap, activate, show-path,
// list-environments, list-all, and the hidden daemon subcommand) onto the
// rest of the core (C10: Command dispatcher).
package cmd

import (
	"context"
	"fmt"

	"github.com/kantord/enwiro/internal/adapter"
	"github.com/kantord/enwiro/internal/cacheclient"
	"github.com/kantord/enwiro/internal/config"
	"github.com/kantord/enwiro/internal/cookbook"
	"github.com/kantord/enwiro/internal/envstore"
	"github.com/kantord/enwiro/internal/listing"
	"github.com/kantord/enwiro/internal/metastore"
	"github.com/kantord/enwiro/internal/notifier"
	"github.com/kantord/enwiro/internal/plugin"
	"github.com/kantord/enwiro/internal/recipecache"
	"github.com/kantord/enwiro/internal/testutil"
)

// App bundles the process-wide collaborators every subcommand needs:
// the config record, the runtime directories' derived stores, and the
// notifier. Passed explicitly rather than held in package-level
// singletons, per the core's design notes.
type App struct {
	Config   *config.Config
	Envs     *envstore.Store
	Meta     *metastore.Store
	Pipeline *listing.Pipeline
	Cache    *cacheclient.Client
	Notify   notifier.Notifier
	Clock    testutil.Clock

	adapters map[string]string
}

// NewApp discovers plugins and constructs every collaborator an App needs.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	adapters := plugin.Discover(plugin.RoleAdapter)
	config.ApplyAdapterAutoSelect(cfg, adapters)

	clock := testutil.RealClock{}
	envs := envstore.New(cfg.WorkspacesDirectory)
	meta := &metastore.Store{Root: cfg.WorkspacesDirectory, Clock: clock}

	cookbookClients := make(map[string]listing.CookbookClient)
	for shortName, path := range plugin.Discover(plugin.RoleCookbook) {
		cookbookClients[shortName] = cookbook.New(shortName, path)
	}

	pipeline := &listing.Pipeline{
		Envs:      envs,
		Meta:      meta,
		Cookbooks: cookbookClients,
		Clock:     clock,
	}

	n := notifier.Desktop{}

	cache, err := cacheclient.New(pipeline, n, clock)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Envs:     envs,
		Meta:     meta,
		Pipeline: pipeline,
		Cache:    cache,
		Notify:   n,
		Clock:    clock,
		adapters: adapters,
	}, nil
}

// adapterClient resolves the configured default adapter, if any.
func (a *App) adapterClient() (*adapter.Client, error) {
	if a.Config.Adapter == "" {
		return nil, fmt.Errorf("no adapter is configured; set \"adapter\" in enwiro.toml")
	}
	path, ok := a.adapters[a.Config.Adapter]
	if !ok {
		return nil, fmt.Errorf("configured adapter %q was not found among discovered plugins", a.Config.Adapter)
	}
	return adapter.New(a.Config.Adapter, path), nil
}

// resolveOrCook returns the working directory and environment name for
// name: an existing environment's target if one exists, otherwise the
// cookbook whose recipes include name is asked to cook it, recording cook
// metadata. name is flattened once up front (recipe names such as the git
// cookbook's "feature/foo" cannot themselves be environment directory
// basenames), and the flattened form is used consistently to resolve,
// create, and record metadata for the environment. Returns ok=false if
// neither an environment nor a recipe matches.
func (a *App) resolveOrCook(ctx context.Context, name string) (path string, envName string, ok bool, err error) {
	flatName := envstore.FlattenName(name)

	if target, found, err := a.Envs.Resolve(flatName); err != nil {
		return "", "", false, err
	} else if found {
		return target, flatName, true, nil
	}

	if shortName, r, found := a.cachedRecipe(name); found {
		if client, ok := a.Pipeline.Cookbooks[shortName]; ok {
			if cb, isClient := client.(*cookbook.Client); isClient {
				return a.cookRecipe(ctx, cb, shortName, r.Description, name, flatName)
			}
		}
	}

	for shortName, client := range a.Pipeline.Cookbooks {
		cb, isClient := client.(*cookbook.Client)
		if !isClient {
			continue
		}
		recipes, err := cb.ListRecipes(ctx)
		if err != nil {
			continue
		}
		for _, r := range recipes {
			if r.Name != name {
				continue
			}
			return a.cookRecipe(ctx, cb, shortName, r.Description, name, flatName)
		}
	}

	return "", "", false, nil
}

// cachedRecipe looks up name in the daemon's recipes.cache, if one is
// present, fresh, and readable, returning the owning cookbook's short
// name and matching recipe without invoking any cookbook's (potentially
// slow) ListRecipes. A stale or missing cache falls through to the slow
// path in resolveOrCook.
func (a *App) cachedRecipe(name string) (shortName string, r cookbook.Recipe, found bool) {
	if a.Cache == nil {
		return "", cookbook.Recipe{}, false
	}
	file, err := recipecache.Read(a.Cache.CachePath)
	if err != nil {
		return "", cookbook.Recipe{}, false
	}
	if a.Clock.Now().Sub(file.WrittenAt) > cacheclient.FreshnessWindow {
		return "", cookbook.Recipe{}, false
	}
	for _, cb := range file.Cookbooks {
		for _, rec := range cb.Recipes {
			if rec.Name == name {
				return cb.ShortName, rec, true
			}
		}
	}
	return "", cookbook.Recipe{}, false
}

// cookRecipe cooks name via cb, creates the environment under flatName,
// and records cook metadata.
func (a *App) cookRecipe(ctx context.Context, cb *cookbook.Client, shortName, description, name, flatName string) (path string, envName string, ok bool, err error) {
	cooked, err := cb.Cook(ctx, name)
	if err != nil {
		return "", "", false, err
	}
	if err := a.Envs.Create(flatName, cooked); err != nil {
		return "", "", false, err
	}
	a.Meta.RecordCookMetadata(flatName, shortName, description)
	return cooked, flatName, true, nil
}

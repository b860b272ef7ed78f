// SPDX-License-Identifier: MPL-2.0

package cacheclient

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kantord/enwiro/internal/cookbook"
	"github.com/kantord/enwiro/internal/envstore"
	"github.com/kantord/enwiro/internal/listing"
	"github.com/kantord/enwiro/internal/metastore"
	"github.com/kantord/enwiro/internal/notifier"
	"github.com/kantord/enwiro/internal/recipecache"
	"github.com/kantord/enwiro/internal/rundir"
	"github.com/kantord/enwiro/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCookbook struct {
	priority int
	recipes  []cookbook.Recipe
}

func (f *fakeCookbook) Metadata(ctx context.Context) int { return f.priority }
func (f *fakeCookbook) ListRecipes(ctx context.Context) ([]cookbook.Recipe, error) {
	return f.recipes, nil
}

func newTestClient(t *testing.T) (*Client, *testutil.FakeClock, string) {
	t.Helper()
	dir := t.TempDir()
	root := t.TempDir()
	clock := testutil.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	pipeline := &listing.Pipeline{
		Envs: envstore.New(root),
		Meta: &metastore.Store{Root: root, Clock: clock},
		Cookbooks: map[string]listing.CookbookClient{
			"git": &fakeCookbook{priority: 10, recipes: []cookbook.Recipe{{Name: "alpha", Origin: "git"}}},
		},
		Clock: clock,
	}

	c := &Client{
		Pipeline:      pipeline,
		Notifier:      &notifier.Recording{},
		Clock:         clock,
		CachePath:     filepath.Join(dir, "recipes.cache"),
		HeartbeatPath: filepath.Join(dir, "heartbeat"),
		PidPath:       filepath.Join(dir, "daemon.pid"),
		SentinelPath:  filepath.Join(dir, ".daemon-notified"),
		daemonArgv:    []string{"/bin/true"},
	}
	return c, clock, dir
}

func TestListAllFastPathUsesFreshCache(t *testing.T) {
	c, clock, _ := newTestClient(t)

	require.NoError(t, recipecache.Write(c.CachePath, recipecache.File{
		WrittenAt: clock.Now(),
		Cookbooks: []recipecache.CookbookRecipes{
			{ShortName: "git", Priority: 10, Recipes: []cookbook.Recipe{{Name: "alpha", Origin: "git"}}},
		},
	}))

	entries, err := c.ListAllFastPath(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alpha", entries[0].Name)
}

func TestListAllFastPathFallsBackWhenCacheStale(t *testing.T) {
	c, clock, _ := newTestClient(t)

	require.NoError(t, recipecache.Write(c.CachePath, recipecache.File{
		WrittenAt: clock.Now(),
		Cookbooks: []recipecache.CookbookRecipes{
			{ShortName: "git", Priority: 10, Recipes: []cookbook.Recipe{{Name: "stale-only", Origin: "git"}}},
		},
	}))
	clock.Advance(FreshnessWindow + time.Minute)

	entries, err := c.ListAllFastPath(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alpha", entries[0].Name, "should have fallen through to the synchronous listing, not the stale cache")
}

func TestListAllFastPathFallsBackWhenCacheMissing(t *testing.T) {
	c, _, _ := newTestClient(t)

	entries, err := c.ListAllFastPath(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alpha", entries[0].Name)
}

func TestEnsureDaemonRunningNotifiesOnceThenGates(t *testing.T) {
	c, _, _ := newTestClient(t)
	rec := c.Notifier.(*notifier.Recording)

	c.ensureDaemonRunning(context.Background())
	require.Len(t, rec.Successes, 1)

	c.ensureDaemonRunning(context.Background())
	assert.Len(t, rec.Successes, 1, "second spawn must not notify again")
}

func TestListAllFastPathTouchesHeartbeat(t *testing.T) {
	c, _, _ := newTestClient(t)

	_, err := c.ListAllFastPath(context.Background())
	require.NoError(t, err)

	_, statErr := os.Stat(c.HeartbeatPath)
	require.NoError(t, statErr)
}

func TestHeartbeatWriteIsReadableByDaemon(t *testing.T) {
	c, clock, _ := newTestClient(t)

	_, err := c.ListAllFastPath(context.Background())
	require.NoError(t, err)

	got, ok := rundir.ReadHeartbeat(c.HeartbeatPath)
	require.True(t, ok, "daemon must be able to parse the heartbeat this client wrote")
	assert.True(t, clock.Now().Equal(got))
}

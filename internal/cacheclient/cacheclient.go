// SPDX-License-Identifier: MPL-2.0

package cacheclient

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/kantord/enwiro/internal/daemon"
	"github.com/kantord/enwiro/internal/listing"
	"github.com/kantord/enwiro/internal/notifier"
	"github.com/kantord/enwiro/internal/recipecache"
	"github.com/kantord/enwiro/internal/rundir"
	"github.com/kantord/enwiro/internal/testutil"
)

// FreshnessWindow is how old recipes.cache may be and still be trusted
// without falling back to a synchronous listing (5 minutes of refresh
// interval plus a 30 second buffer against clock/refresh jitter).
const FreshnessWindow = 5*time.Minute + 30*time.Second

// Client implements list-all's fast path against the daemon's cache.
type Client struct {
	Pipeline      *listing.Pipeline
	Notifier      notifier.Notifier
	Clock         testutil.Clock
	CachePath     string
	HeartbeatPath string
	PidPath       string
	SentinelPath  string

	// daemonArgv, when set, is the argv spawned to ensure a daemon is
	// running, in place of the default {os.Executable(), "daemon"};
	// overridable in tests.
	daemonArgv []string
}

// New constructs a Client with its runtime paths resolved from rundir.
func New(pipeline *listing.Pipeline, n notifier.Notifier, clock testutil.Clock) (*Client, error) {
	cachePath, err := rundir.CacheFile()
	if err != nil {
		return nil, err
	}
	heartbeatPath, err := rundir.HeartbeatFile()
	if err != nil {
		return nil, err
	}
	pidPath, err := rundir.PidFile()
	if err != nil {
		return nil, err
	}
	dataDir, err := rundir.DataDir()
	if err != nil {
		return nil, err
	}

	return &Client{
		Pipeline:      pipeline,
		Notifier:      n,
		Clock:         clock,
		CachePath:     cachePath,
		HeartbeatPath: heartbeatPath,
		PidPath:       pidPath,
		SentinelPath:  filepath.Join(dataDir, ".daemon-notified"),
	}, nil
}

// ListAllFastPath reads recipes.cache when fresh; otherwise it ensures a
// daemon is running (ignoring spawn failures) and falls back to a
// synchronous listing.
func (c *Client) ListAllFastPath(ctx context.Context) ([]listing.Entry, error) {
	c.touchHeartbeat()
	defer c.touchHeartbeat()

	envSummaries, err := c.Pipeline.ListEnvironments()
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(envSummaries))
	for _, e := range envSummaries {
		existing[e.Name] = true
	}

	if file, ok := c.readFreshCache(); ok {
		entries := make([]listing.Entry, 0, len(envSummaries))
		for _, e := range envSummaries {
			entries = append(entries, listing.Entry{Name: e.Name, IsEnvironment: true})
		}
		for _, r := range file.Entries(existing) {
			entries = append(entries, listing.Entry{
				Cookbook:    r.Origin,
				Name:        r.Name,
				Description: r.Description,
				HasDesc:     r.HasDesc,
			})
		}
		return entries, nil
	}

	c.ensureDaemonRunning(ctx)

	return c.Pipeline.ListAll(ctx)
}

func (c *Client) readFreshCache() (recipecache.File, bool) {
	file, err := recipecache.Read(c.CachePath)
	if err != nil {
		return recipecache.File{}, false
	}
	if c.Clock.Now().Sub(file.WrittenAt) > FreshnessWindow {
		return recipecache.File{}, false
	}
	return file, true
}

func (c *Client) touchHeartbeat() {
	if err := rundir.TouchHeartbeat(c.HeartbeatPath, c.Clock.Now()); err != nil {
		slog.Debug("cacheclient: failed to touch heartbeat", "error", err)
	}
}

// ensureDaemonRunning spawns the current binary with the hidden daemon
// subcommand, detached from this process, unless one is already running.
// A failure to spawn is ignored; the caller falls through to a synchronous
// listing regardless.
func (c *Client) ensureDaemonRunning(ctx context.Context) {
	if c.PidPath != "" && daemon.IsRunning(c.PidPath) {
		return
	}

	argv := c.daemonArgv
	if argv == nil {
		exe, err := os.Executable()
		if err != nil {
			slog.Debug("cacheclient: cannot resolve own executable, skipping daemon spawn", "error", err)
			return
		}
		argv = []string{exe, "daemon"}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachedProcAttr()

	if err := cmd.Start(); err != nil {
		slog.Debug("cacheclient: failed to spawn daemon", "error", err)
		return
	}
	// The daemon is a detached, independent process; do not wait on it.
	_ = cmd.Process.Release()

	c.notifyFirstSpawn(ctx)
}

// notifyFirstSpawn sends the "daemon started" notification exactly once
// per user account, gated by a sentinel file.
func (c *Client) notifyFirstSpawn(ctx context.Context) {
	if c.SentinelPath == "" {
		return
	}
	if _, err := os.Stat(c.SentinelPath); err == nil {
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifySuccess(ctx, "Enwiro", "Enwiro daemon started")
	}

	if err := rundir.WriteAtomic(c.SentinelPath, []byte{}, 0o644); err != nil {
		slog.Debug("cacheclient: failed to write daemon-started sentinel", "error", err)
	}
}

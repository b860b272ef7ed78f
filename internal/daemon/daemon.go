// SPDX-License-Identifier: MPL-2.0

package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/kantord/enwiro/internal/listing"
	"github.com/kantord/enwiro/internal/recipecache"
	"github.com/kantord/enwiro/internal/rundir"
	"github.com/kantord/enwiro/internal/testutil"
)

const (
	// TickInterval is how often the main loop wakes to check for work.
	TickInterval = 60 * time.Second

	// RefreshInterval is the minimum time between recipe-cache refreshes.
	RefreshInterval = 5 * time.Minute

	// HeartbeatIdleTimeout is how long the daemon waits without any
	// list-all caller touching the heartbeat before shutting down.
	HeartbeatIdleTimeout = time.Hour

	singletonMaxAttempts = 3
	singletonBackoff     = 10 * time.Millisecond
)

// Daemon is the long-running cache-refreshing background process.
type Daemon struct {
	Pipeline      *listing.Pipeline
	Clock         testutil.Clock
	PidPath       string
	CachePath     string
	HeartbeatPath string
}

// New constructs a Daemon with its runtime file paths resolved from rundir.
func New(pipeline *listing.Pipeline, clock testutil.Clock) (*Daemon, error) {
	pidPath, err := rundir.PidFile()
	if err != nil {
		return nil, err
	}
	cachePath, err := rundir.CacheFile()
	if err != nil {
		return nil, err
	}
	heartbeatPath, err := rundir.HeartbeatFile()
	if err != nil {
		return nil, err
	}

	return &Daemon{
		Pipeline:      pipeline,
		Clock:         clock,
		PidPath:       pidPath,
		CachePath:     cachePath,
		HeartbeatPath: heartbeatPath,
	}, nil
}

// AcquireSingleton attempts exclusive creation of daemon.pid. It returns
// true if this process now owns the pidfile. If another process already
// owns a live pidfile, it returns false so the caller can exit 0 (a second
// daemon observing a live singleton is not an error). A stale pidfile
// (dead process) is reclaimed and creation retried, bounded to
// singletonMaxAttempts with a short backoff between attempts.
func (d *Daemon) AcquireSingleton() (bool, error) {
	for attempt := 0; attempt < singletonMaxAttempts; attempt++ {
		err := d.tryCreatePidFile()
		if err == nil {
			return true, nil
		}
		if !os.IsExist(err) {
			return false, err
		}

		pid, readErr := d.readPidFile()
		if readErr != nil {
			// Corrupt pidfile; treat like a stale one and reclaim it.
			os.Remove(d.PidPath)
			continue
		}
		if processAlive(pid) {
			return false, nil
		}

		slog.Debug("daemon: reclaiming stale pidfile", "pid", pid)
		os.Remove(d.PidPath)
		<-d.Clock.After(singletonBackoff)
	}

	return false, fmt.Errorf("could not acquire daemon singleton after %d attempts", singletonMaxAttempts)
}

// ReleasePidFile unlinks daemon.pid. Safe to call even if it does not exist.
func (d *Daemon) ReleasePidFile() {
	if err := os.Remove(d.PidPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("daemon: failed to remove pidfile", "path", d.PidPath, "error", err)
	}
}

func (d *Daemon) tryCreatePidFile() error {
	if err := os.MkdirAll(filepath.Dir(d.PidPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(d.PidPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strconv.Itoa(os.Getpid()))
	return err
}

func (d *Daemon) readPidFile() (int, error) {
	data, err := os.ReadFile(d.PidPath)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// IsRunning reports whether a live daemon currently owns daemon.pid,
// without attempting to acquire it.
func IsRunning(pidPath string) bool {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false
	}
	return processAlive(pid)
}

// touchHeartbeat records now, as Unix seconds, in the heartbeat file. Any
// caller of list-all does this, not just the daemon, so idle shutdown
// tracks reader activity rather than refresh progress.
func (d *Daemon) touchHeartbeat(now time.Time) {
	if err := rundir.TouchHeartbeat(d.HeartbeatPath, now); err != nil {
		slog.Warn("daemon: failed to touch heartbeat", "error", err)
	}
}

func (d *Daemon) lastHeartbeat() time.Time {
	t, ok := rundir.ReadHeartbeat(d.HeartbeatPath)
	if !ok {
		return d.Clock.Now()
	}
	return t
}

// refresh runs the listing pipeline and atomically writes the result to
// recipes.cache. A failed refresh leaves the previous cache untouched.
func (d *Daemon) refresh(ctx context.Context) error {
	file := d.Pipeline.BuildCache(ctx)
	return recipecache.Write(d.CachePath, file)
}

// Run acquires the singleton, installs signal handlers, seeds the
// heartbeat, and enters the main refresh loop until a shutdown signal
// arrives or ctx is cancelled. Per §5, signal handlers only set a flag
// (here, cancel the run's own context); all real work, including pidfile
// cleanup, happens on this goroutine.
func (d *Daemon) Run(ctx context.Context) error {
	acquired, err := d.AcquireSingleton()
	if err != nil {
		return err
	}
	if !acquired {
		slog.Info("daemon: another instance is already running")
		return nil
	}
	defer d.ReleasePidFile()

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	d.touchHeartbeat(d.Clock.Now())

	lastRefresh := time.Time{}
	for {
		select {
		case <-runCtx.Done():
			return nil
		case <-d.Clock.After(TickInterval):
			now := d.Clock.Now()

			if now.Sub(d.lastHeartbeat()) > HeartbeatIdleTimeout {
				slog.Info("daemon: no activity for longer than the idle timeout, shutting down")
				return nil
			}

			if lastRefresh.IsZero() || now.Sub(lastRefresh) >= RefreshInterval {
				if err := d.refresh(runCtx); err != nil {
					slog.Warn("daemon: refresh failed, keeping previous cache", "error", err)
				} else {
					lastRefresh = now
				}
			}
		}
	}
}

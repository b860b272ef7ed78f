// SPDX-License-Identifier: MPL-2.0

// Package rundir resolves the runtime directory used for the cache daemon's
// PID file, recipe cache, and heartbeat, and provides the atomic file-write
// helper shared by every component that persists state to disk.
package rundir

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// dirOverride lets tests pin the runtime directory without touching
// environment variables directly.
var dirOverride string

// SetOverride pins the runtime directory for the duration of a test.
// Pass "" to clear it.
func SetOverride(dir string) {
	dirOverride = dir
}

// Dir resolves the runtime directory: $XDG_RUNTIME_DIR/enwiro if set, else
// $XDG_CACHE_HOME/enwiro/run, else $HOME/.cache/enwiro/run.
func Dir() (string, error) {
	if dirOverride != "" {
		return dirOverride, nil
	}

	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "enwiro"), nil
	}

	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "enwiro", "run"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "enwiro", "run"), nil
}

// PidFile returns the path to the daemon's PID file.
func PidFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "daemon.pid"), nil
}

// CacheFile returns the path to the serialized recipe cache.
func CacheFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "recipes.cache"), nil
}

// HeartbeatFile returns the path to the heartbeat touch-file.
func HeartbeatFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "heartbeat"), nil
}

// DataDir resolves $XDG_DATA_HOME/enwiro, falling back to
// $HOME/.local/share/enwiro, used for the first-run notification sentinel.
func DataDir() (string, error) {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "enwiro"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "enwiro"), nil
}

// TouchHeartbeat writes now as Unix-seconds text to path, atomically. Both
// the daemon and the cache client call this with the same path so that
// either side can read back a heartbeat the other side wrote.
func TouchHeartbeat(path string, now time.Time) error {
	return WriteAtomic(path, []byte(strconv.FormatInt(now.Unix(), 10)), 0o644)
}

// ReadHeartbeat reads the Unix-seconds heartbeat written by TouchHeartbeat.
// ok is false if the file is absent or malformed.
func ReadHeartbeat(path string) (t time.Time, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, false
	}
	unixSeconds, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unixSeconds, 0).UTC(), true
}

// WriteAtomic writes data to path by writing to a sibling temp file and
// renaming it into place, so readers never observe partial content.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

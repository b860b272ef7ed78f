// SPDX-License-Identifier: MPL-2.0

package metastore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kantord/enwiro/internal/filelock"
	"github.com/kantord/enwiro/internal/rundir"
	"github.com/kantord/enwiro/internal/testutil"
)

// Stats is an environment's usage statistics.
type Stats struct {
	ActivationCount int
	LastActivatedAt *time.Time
	Cookbook        string
	Description     string
}

// record is the on-disk meta.json / legacy usage-stats.json shape.
type record struct {
	ActivationCount int    `json:"activation_count"`
	LastActivatedAt *int64 `json:"last_activated_at"`
	Cookbook        string `json:"cookbook"`
	Description     string `json:"description"`
}

// Store manages per-environment meta.json files under a workspaces
// directory, with legacy usage-stats.json fallback.
type Store struct {
	Root  string
	Clock testutil.Clock
}

// New returns a Store rooted at the given workspaces directory, using the
// real system clock.
func New(root string) *Store {
	return &Store{Root: root, Clock: testutil.RealClock{}}
}

func (s *Store) metaPath(name string) string {
	return filepath.Join(s.Root, name, "meta.json")
}

func (s *Store) legacyPath() string {
	return filepath.Join(s.Root, "usage-stats.json")
}

func (s *Store) lockPath(name string) string {
	return filepath.Join(s.Root, name, "meta.json.lock")
}

// Load reads an environment's statistics. If meta.json is absent, it falls
// back to the legacy centralized usage-stats.json. Malformed JSON yields
// empty stats rather than failing the caller.
func (s *Store) Load(name string) Stats {
	if rec, ok := s.readRecord(s.metaPath(name)); ok {
		return recordToStats(rec)
	}

	if legacy, ok := s.readLegacyRecord(name); ok {
		return recordToStats(legacy)
	}

	return Stats{}
}

func (s *Store) readRecord(path string) (record, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Warn("metastore: malformed meta.json, treating as absent", "path", path, "error", err)
		return record{}, false
	}
	return rec, true
}

func (s *Store) readLegacyRecord(name string) (record, bool) {
	data, err := os.ReadFile(s.legacyPath())
	if err != nil {
		return record{}, false
	}

	var all map[string]record
	if err := json.Unmarshal(data, &all); err != nil {
		slog.Warn("metastore: malformed legacy usage-stats.json", "path", s.legacyPath(), "error", err)
		return record{}, false
	}

	rec, ok := all[name]
	return rec, ok
}

func recordToStats(rec record) Stats {
	stats := Stats{
		ActivationCount: rec.ActivationCount,
		Cookbook:        rec.Cookbook,
		Description:     rec.Description,
	}
	if rec.LastActivatedAt != nil {
		t := time.Unix(*rec.LastActivatedAt, 0).UTC()
		stats.LastActivatedAt = &t
	}
	return stats
}

// RecordActivation increments activation_count and sets last_activated_at
// to the current time, writing atomically. A write failure is logged and
// not returned to the caller, since the user's primary action (activating)
// has already succeeded or will succeed regardless.
func (s *Store) RecordActivation(name string) {
	unlock := s.lock(name)
	defer unlock()

	stats := s.Load(name)
	stats.ActivationCount++
	now := s.Clock.Now()
	stats.LastActivatedAt = &now

	if err := s.write(name, stats); err != nil {
		slog.Warn("metastore: failed to record activation", "name", name, "error", err)
	}
}

// RecordCookMetadata merges cookbook and description into the existing
// record, never overwriting a non-empty description with an empty one.
func (s *Store) RecordCookMetadata(name, cookbook, description string) {
	unlock := s.lock(name)
	defer unlock()

	stats := s.Load(name)
	if cookbook != "" {
		stats.Cookbook = cookbook
	}
	if description != "" {
		stats.Description = description
	}

	if err := s.write(name, stats); err != nil {
		slog.Warn("metastore: failed to record cook metadata", "name", name, "error", err)
	}
}

// lock best-effort-serializes the read-modify-write cycle for name's
// meta.json across processes. Last-writer-wins without a lock is an
// acceptable fallback for user-driven activations, so a failure to
// acquire it is logged and never fatal.
func (s *Store) lock(name string) func() {
	if err := os.MkdirAll(filepath.Join(s.Root, name), 0o755); err != nil {
		return func() {}
	}
	l, err := filelock.Acquire(s.lockPath(name))
	if err != nil {
		slog.Debug("metastore: failed to acquire meta.json lock, proceeding unlocked", "name", name, "error", err)
		return func() {}
	}
	return l.Release
}

func (s *Store) write(name string, stats Stats) error {
	rec := record{
		ActivationCount: stats.ActivationCount,
		Cookbook:        stats.Cookbook,
		Description:     stats.Description,
	}
	if stats.LastActivatedAt != nil {
		unix := stats.LastActivatedAt.Unix()
		rec.LastActivatedAt = &unix
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return rundir.WriteAtomic(s.metaPath(name), data, 0o644)
}

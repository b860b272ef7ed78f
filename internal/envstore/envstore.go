// SPDX-License-Identifier: MPL-2.0

package envstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kantord/enwiro/internal/issue"
)

// Entry is one environment found in the workspaces directory.
type Entry struct {
	Name   string
	Target string
	Legacy bool
}

// Store manages environments under a single workspaces directory.
type Store struct {
	Root string
}

// New returns a Store rooted at the given workspaces directory.
func New(root string) *Store {
	return &Store{Root: root}
}

// FlattenName replaces path separators in a recipe or environment name with
// "-", since the name becomes a directory/symlink basename and cannot
// itself contain a separator. The original Rust implementation does the
// same for recipe names (from cookbooks such as git) that may contain "/".
func FlattenName(name string) string {
	return strings.ReplaceAll(name, "/", "-")
}

// ValidName reports whether name can be used as an environment directory
// basename: non-empty, free of path separators, and not "." or "..".
func ValidName(name string) error {
	if name == "" {
		return fmt.Errorf("environment name must not be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("environment name %q is reserved", name)
	}
	if strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		return fmt.Errorf("environment name %q must not contain path separators", name)
	}
	return nil
}

// List enumerates all environments under the workspaces directory, sorted
// by name ascending (callers reorder as needed).
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, issue.NewErrorContext().
			WithOperation("list environments").
			WithResource(s.Root).
			Wrap(err).
			BuildError()
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if ValidName(name) != nil {
			continue
		}

		entry, ok, err := s.resolveEntry(name)
		if err != nil {
			continue
		}
		if ok {
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Resolve returns the working-directory target for name, if it exists.
func (s *Store) Resolve(name string) (string, bool, error) {
	if err := ValidName(name); err != nil {
		return "", false, err
	}
	entry, ok, err := s.resolveEntry(name)
	if err != nil || !ok {
		return "", ok, err
	}
	return entry.Target, true, nil
}

// Exists reports whether an environment named name exists, in either the
// directory form or the legacy bare-symlink form.
func (s *Store) Exists(name string) bool {
	_, ok, _ := s.Resolve(name)
	return ok
}

// resolveEntry inspects workspaces_directory/<name>, distinguishing the
// directory layout from the legacy bare-symlink form.
func (s *Store) resolveEntry(name string) (Entry, bool, error) {
	path := filepath.Join(s.Root, name)

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return Entry{}, false, err
		}
		return Entry{Name: name, Target: target, Legacy: true}, true, nil
	}

	if !info.IsDir() {
		return Entry{}, false, nil
	}

	innerLink := filepath.Join(path, name)
	linkInfo, err := os.Lstat(innerLink)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	if linkInfo.Mode()&os.ModeSymlink == 0 {
		return Entry{}, false, nil
	}
	target, err := os.Readlink(innerLink)
	if err != nil {
		return Entry{}, false, err
	}

	return Entry{Name: name, Target: target}, true, nil
}

// Create ensures workspaces_directory/<name>/ exists containing a symlink
// named <name> pointing at target. A pre-existing legacy bare symlink is
// migrated to the directory form; the new inner symlink points at target,
// not at the legacy symlink's own target. Idempotent:
// repeated calls with the same (name, target) are no-ops after the first;
// a different target overwrites the symlink.
func (s *Store) Create(name, target string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if !filepath.IsAbs(target) {
		return fmt.Errorf("environment %q target %q must be absolute", name, target)
	}

	path := filepath.Join(s.Root, name)

	info, err := os.Lstat(path)
	if err == nil && info.Mode()&os.ModeSymlink != 0 {
		// Legacy bare symlink: migrate to the directory form, keeping the
		// caller-supplied target (the caller is expected to have resolved
		// it from the legacy symlink already, so this is a no-op move).
		if err := os.Remove(path); err != nil {
			return issue.NewErrorContext().
				WithOperation("migrate legacy environment").
				WithResource(path).
				Wrap(err).
				BuildError()
		}
	}

	return s.createDirForm(name, path, target)
}

func (s *Store) createDirForm(name, path, target string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return issue.NewErrorContext().
			WithOperation("create environment directory").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	linkPath := filepath.Join(path, name)
	existingTarget, err := os.Readlink(linkPath)
	if err == nil && existingTarget == target {
		return nil
	}
	if err == nil {
		if rmErr := os.Remove(linkPath); rmErr != nil {
			return issue.NewErrorContext().
				WithOperation("replace environment symlink").
				WithResource(linkPath).
				Wrap(rmErr).
				BuildError()
		}
	}

	if err := os.Symlink(target, linkPath); err != nil {
		return issue.NewErrorContext().
			WithOperation("create environment symlink").
			WithResource(linkPath).
			Wrap(err).
			BuildError()
	}
	return nil
}

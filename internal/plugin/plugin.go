// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Role identifies one of the three plugin families.
type Role string

const (
	RoleCookbook Role = "cookbook"
	RoleAdapter  Role = "adapter"
	RoleBridge   Role = "bridge"
)

// prefix returns the filename prefix identifying executables of this role.
func (r Role) prefix() string {
	return "enwiro-" + string(r) + "-"
}

// Discover scans the executable search path plus the invoker's own
// directory for plugins of the given role, returning a map of short name to
// absolute path. Earlier directories win on short-name collisions.
func Discover(role Role) map[string]string {
	found := make(map[string]string)
	prefix := role.prefix()

	for _, dir := range searchDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			slog.Debug("plugin discovery: cannot list directory", "dir", dir, "error", err)
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			shortName := strings.TrimPrefix(name, prefix)
			if shortName == "" {
				continue
			}
			if _, already := found[shortName]; already {
				continue
			}

			fullPath := filepath.Join(dir, name)
			info, err := os.Stat(fullPath)
			if err != nil {
				slog.Debug("plugin discovery: cannot stat candidate", "path", fullPath, "error", err)
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			if info.Mode().Perm()&0o111 == 0 {
				continue
			}

			found[shortName] = fullPath
		}
	}

	return found
}

// searchDirs enumerates PATH entries plus the current executable's
// directory, deduplicated while preserving first-occurrence order.
func searchDirs() []string {
	var dirs []string
	seen := make(map[string]bool)

	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		add(dir)
	}

	if exe, err := os.Executable(); err == nil {
		add(filepath.Dir(exe))
	} else {
		slog.Debug("plugin discovery: cannot resolve own executable path", "error", err)
	}

	return dirs
}

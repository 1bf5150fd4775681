// SPDX-License-Identifier: MPL-2.0

// Package fspath provides small path helpers shared by manifest discovery and
// project analysis. All helpers operate on OS-native paths.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Abs wraps filepath.Abs and cleans the result. Returns an error if the
// underlying OS call fails.
func Abs(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// Normalize resolves p to a clean absolute path, falling back to
// filepath.Clean when the working directory cannot be determined.
func Normalize(p string) string {
	abs, err := Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

// Parent returns the parent directory of dir and reports whether one exists.
// At the filesystem root (parent equals self) it returns dir and false.
func Parent(dir string) (string, bool) {
	parent := filepath.Dir(dir)
	if parent == dir {
		return dir, false
	}
	return parent, true
}

// IsWithin reports whether p equals base or lives below it. Unlike a plain
// string prefix check, "/repo2" is not within "/repo".
func IsWithin(base, p string) bool {
	base = filepath.Clean(base)
	p = filepath.Clean(p)
	if base == p {
		return true
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

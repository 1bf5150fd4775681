// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/markoverano/npm-command-runner/internal/fsys"
	"github.com/markoverano/npm-command-runner/internal/testutil"
	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

var errPermissionDenied = errors.New("permission denied")

// faultyFS wraps an FS and fails ListDir or ReadFile for selected paths.
type faultyFS struct {
	fsys.FS
	unlistable map[string]bool
	unreadable map[string]bool
}

func (f *faultyFS) ListDir(dir string) ([]fsys.Entry, error) {
	if f.unlistable[dir] {
		return nil, errPermissionDenied
	}
	return f.FS.ListDir(dir)
}

func (f *faultyFS) ReadFile(path string) ([]byte, error) {
	if f.unreadable[path] {
		return nil, errPermissionDenied
	}
	return f.FS.ReadFile(path)
}

// testRoot returns an absolute in-memory path under the filesystem root.
func testRoot(elem ...string) string {
	return filepath.Join(append([]string{string(filepath.Separator)}, elem...)...)
}

// newTestEngine builds an Engine over an in-memory tree rooted at root.
func newTestEngine(t *testing.T, root string, tree testutil.Tree, opts ...Option) *Engine {
	t.Helper()
	fs, _ := testutil.MemTree(t, root, tree)
	e, err := New(fs, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func paths(list []*manifest.Info) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.Path
	}
	return out
}

func findByPath(list []*manifest.Info, path string) *manifest.Info {
	for _, m := range list {
		if m.Path == path {
			return m
		}
	}
	return nil
}

func manifestPath(elem ...string) string {
	return filepath.Join(append(elem, manifest.FileName)...)
}

// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/markoverano/npm-command-runner/internal/fsys"
	"github.com/markoverano/npm-command-runner/pkg/fspath"
	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

const nodeModulesDir = "node_modules"

// skippedDirs are never descended into, regardless of remaining depth.
var skippedDirs = map[string]bool{
	"dist":          true,
	"build":         true,
	"out":           true,
	".next":         true,
	".nuxt":         true,
	"coverage":      true,
	".nyc_output":   true,
	"tmp":           true,
	"temp":          true,
	"__pycache__":   true,
	".pytest_cache": true,
}

// SkippedDirs returns the directory names the downward pass never enters,
// sorted. node_modules and hidden directories are handled separately.
func SkippedDirs() []string {
	return slices.Sorted(maps.Keys(skippedDirs))
}

type (
	// candidate is a manifest path found by a traversal, not yet parsed.
	candidate struct {
		path     string
		distance int
	}

	// walkResult is the output of one traversal pass. Each pass owns its
	// visited set; nothing is shared between passes or between calls.
	walkResult struct {
		visited     map[string]struct{}
		found       []candidate
		diagnostics []Diagnostic
	}

	downWalker struct {
		fs                 fsys.FS
		maxDepth           int
		includeNodeModules bool
		result             walkResult
	}
)

func newWalkResult() walkResult {
	return walkResult{visited: make(map[string]struct{})}
}

// walkUp examines startPath and its ancestors, up to maxDepth hops or the
// filesystem root.
func walkUp(ctx context.Context, fs fsys.FS, startPath string, maxDepth int) (walkResult, error) {
	res := newWalkResult()
	dir := startPath
	for depth := 0; depth <= maxDepth; depth++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, seen := res.visited[dir]; !seen {
			res.visited[dir] = struct{}{}
			if path := manifestIn(fs, dir); path != "" {
				res.found = append(res.found, candidate{path: path, distance: depth})
			}
		}
		parent, ok := fspath.Parent(dir)
		if !ok {
			break
		}
		dir = parent
	}
	return res, nil
}

// walkDown examines startPath and its descendants in pre-order, up to
// maxDepth hops. Children are visited in the order returned by ListDir.
func walkDown(ctx context.Context, fs fsys.FS, startPath string, maxDepth int, includeNodeModules bool) (walkResult, error) {
	w := &downWalker{
		fs:                 fs,
		maxDepth:           maxDepth,
		includeNodeModules: includeNodeModules,
		result:             newWalkResult(),
	}
	err := w.visit(ctx, startPath, 0)
	return w.result, err
}

func (w *downWalker) visit(ctx context.Context, dir string, depth int) error {
	if depth > w.maxDepth {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, seen := w.result.visited[dir]; seen {
		return nil
	}
	w.result.visited[dir] = struct{}{}

	if path := manifestIn(w.fs, dir); path != "" {
		w.result.found = append(w.result.found, candidate{path: path, distance: depth})
	}
	if depth == w.maxDepth {
		return nil
	}

	entries, err := w.fs.ListDir(dir)
	if err != nil {
		w.result.diagnostics = append(w.result.diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeDirectoryListFailed,
			Message:  fmt.Sprintf("failed to list directory %s, treating it as empty: %v", dir, err),
			Path:     dir,
			Cause:    err,
		})
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir || shouldSkipDir(entry.Name, w.includeNodeModules) {
			continue
		}
		if err := w.visit(ctx, filepath.Join(dir, entry.Name), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// shouldSkipDir reports whether the downward pass must not enter a child
// directory with the given name.
func shouldSkipDir(name string, includeNodeModules bool) bool {
	if name == nodeModulesDir {
		return !includeNodeModules
	}
	if strings.HasPrefix(name, ".") && name != ".." {
		return true
	}
	return skippedDirs[name]
}

// manifestIn returns the manifest path inside dir, or "" when there is none.
func manifestIn(fs fsys.FS, dir string) string {
	path := filepath.Join(dir, manifest.FileName)
	if fs.Exists(path) {
		return path
	}
	return ""
}

// mergeCandidates concatenates passes in order, keeping the first occurrence
// of every manifest path.
func mergeCandidates(passes ...walkResult) ([]candidate, []Diagnostic) {
	seen := make(map[string]struct{})
	var (
		merged []candidate
		diags  []Diagnostic
	)
	for _, pass := range passes {
		for _, c := range pass.found {
			if _, dup := seen[c.path]; dup {
				continue
			}
			seen[c.path] = struct{}{}
			merged = append(merged, c)
		}
		diags = append(diags, pass.diagnostics...)
	}
	return merged, diags
}

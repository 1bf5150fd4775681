// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/markoverano/npm-command-runner/internal/fsys"
	"github.com/markoverano/npm-command-runner/pkg/fspath"
	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

type (
	// Engine discovers and ranks manifests. It owns the result cache and the
	// set of known workspace roots; both are safe for concurrent use.
	Engine struct {
		fs     fsys.FS
		logger *log.Logger
		cache  *resultCache

		mu    sync.RWMutex
		roots []string
	}

	// Option configures an Engine.
	Option func(*engineConfig)

	engineConfig struct {
		roots     []string
		logger    *log.Logger
		cacheSize int
	}
)

// WithWorkspaceRoots sets the initial known workspace roots.
func WithWorkspaceRoots(roots []string) Option {
	return func(c *engineConfig) { c.roots = roots }
}

// WithLogger sets the logger used for debug output about skipped entries.
func WithLogger(logger *log.Logger) Option {
	return func(c *engineConfig) { c.logger = logger }
}

// WithCacheSize bounds the number of cached results. Non-positive values
// fall back to DefaultCacheSize.
func WithCacheSize(size int) Option {
	return func(c *engineConfig) { c.cacheSize = size }
}

// New creates an Engine reading through fs.
func New(fs fsys.FS, opts ...Option) (*Engine, error) {
	cfg := engineConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}

	cache, err := newResultCache(cfg.cacheSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		fs:     fs,
		logger: cfg.logger,
		cache:  cache,
		roots:  normalizeRoots(cfg.roots),
	}, nil
}

// Discover returns the manifests around startPath sorted by descending
// score. The error is non-nil only when ctx is cancelled mid-run.
func (e *Engine) Discover(ctx context.Context, startPath string, opts Options) ([]*manifest.Info, error) {
	res, err := e.DiscoverWithDiagnostics(ctx, startPath, opts)
	if err != nil {
		return nil, err
	}
	return res.Manifests, nil
}

// DiscoverWithDiagnostics is Discover plus the non-fatal diagnostics
// (unreadable directories, malformed manifests) produced by the run.
func (e *Engine) DiscoverWithDiagnostics(ctx context.Context, startPath string, opts Options) (Result, error) {
	return e.discover(ctx, fspath.Normalize(startPath), opts.Resolve())
}

func (e *Engine) discover(ctx context.Context, start string, opts Resolved) (Result, error) {
	key := cacheKey(start, opts)

	if opts.CacheResults {
		if res, ok := e.cache.get(key); ok {
			e.logger.Debug("discovery cache hit", "start", start)
			return res, nil
		}
	}

	roots := e.WorkspaceRoots()

	up, err := walkUp(ctx, e.fs, start, opts.MaxDepthUp)
	if err != nil {
		return Result{}, fmt.Errorf("discover manifests from %s: %w", start, err)
	}
	down, err := walkDown(ctx, e.fs, start, opts.MaxDepthDown, opts.IncludeNodeModules)
	if err != nil {
		return Result{}, fmt.Errorf("discover manifests from %s: %w", start, err)
	}

	candidates, diags := mergeCandidates(up, down)
	list, parseDiags := e.parseCandidates(candidates, roots)
	diags = append(diags, parseDiags...)
	scoreAll(list, start)

	e.logDiagnostics(diags)
	res := Result{Manifests: list, Diagnostics: diags}
	if opts.CacheResults {
		e.cache.put(key, res)
	}
	e.logger.Debug("discovery finished", "start", start, "manifests", len(list), "diagnostics", len(diags), "cached", e.CachedResults())
	return res, nil
}

// Best returns the highest-ranked manifest for startPath, or nil when none
// exists. When no manifest sits exactly at startPath, a supplementary
// downward probe (at most two hops) is merged in and the whole set is
// rescored before choosing.
func (e *Engine) Best(ctx context.Context, startPath string, opts Options) (*manifest.Info, error) {
	resolved := opts.Resolve()
	start := fspath.Normalize(startPath)

	res, err := e.discover(ctx, start, resolved)
	if err != nil {
		return nil, err
	}
	list := res.Manifests

	if !hasManifestAt(list, start) {
		probe, err := walkDown(ctx, e.fs, start, min(resolved.MaxDepthDown, probeMaxDepth), resolved.IncludeNodeModules)
		if err != nil {
			return nil, fmt.Errorf("probe manifests below %s: %w", start, err)
		}
		probed, diags := e.parseCandidates(probe.found, e.WorkspaceRoots())
		e.logDiagnostics(append(probe.diagnostics, diags...))
		list = mergeManifests(list, probed)
		scoreAll(list, start)
	}

	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ParseManifest reads and parses one manifest. It reports false, never an
// error, when the file is missing, unreadable or malformed.
func (e *Engine) ParseManifest(path string, distance int) (*manifest.Info, bool) {
	info, diag := parseManifest(e.fs, path, distance, e.WorkspaceRoots())
	if diag != nil {
		e.logDiagnostics([]Diagnostic{*diag})
		return nil, false
	}
	return info, info != nil
}

// ClearCache drops every cached result.
func (e *Engine) ClearCache() {
	e.cache.purge()
	e.logger.Debug("discovery cache cleared")
}

// RefreshWorkspaceRoots replaces the known workspace roots and clears the
// cache, since cached scores depend on them.
func (e *Engine) RefreshWorkspaceRoots(roots []string) {
	normalized := normalizeRoots(roots)
	e.mu.Lock()
	e.roots = normalized
	e.mu.Unlock()
	e.ClearCache()
	e.logger.Debug("workspace roots refreshed", "roots", normalized)
}

// WorkspaceRoots returns a copy of the known workspace roots.
func (e *Engine) WorkspaceRoots() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.roots)
}

// CachedResults returns the number of cached discovery results.
func (e *Engine) CachedResults() int {
	return e.cache.size()
}

// parseCandidates parses found manifests in order, dropping the ones that
// fail and marking workspace roots.
func (e *Engine) parseCandidates(candidates []candidate, roots []string) ([]*manifest.Info, []Diagnostic) {
	list := make([]*manifest.Info, 0, len(candidates))
	var diags []Diagnostic
	for _, c := range candidates {
		info, diag := parseManifest(e.fs, c.path, c.distance, roots)
		if diag != nil {
			diags = append(diags, *diag)
			continue
		}
		if info != nil {
			list = append(list, info)
		}
	}
	return list, diags
}

func (e *Engine) logDiagnostics(diags []Diagnostic) {
	for _, d := range diags {
		if d.Severity == SeverityError {
			e.logger.Warn(d.Message, "code", d.Code, "path", d.Path)
			continue
		}
		e.logger.Debug(d.Message, "code", d.Code, "path", d.Path)
	}
}

// parseManifest returns (nil, nil) for a missing file, (nil, diag) for a read
// or parse failure, and the parsed manifest otherwise.
func parseManifest(fs fsys.FS, path string, distance int, roots []string) (*manifest.Info, *Diagnostic) {
	if !fs.Exists(path) {
		return nil, nil
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, &Diagnostic{
			Severity: SeverityError,
			Code:     CodeManifestReadFailed,
			Message:  fmt.Sprintf("skipping unreadable manifest %s: %v", path, err),
			Path:     path,
			Cause:    err,
		}
	}
	info, err := manifest.Parse(data, path, distance)
	if err != nil {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeManifestParseSkipped,
			Message:  fmt.Sprintf("skipping malformed manifest %s: %v", path, err),
			Path:     path,
			Cause:    err,
		}
	}
	info.IsWorkspaceRoot = slices.Contains(roots, info.Directory)
	return info, nil
}

// mergeManifests appends the entries of extra whose path is not already in
// list.
func mergeManifests(list, extra []*manifest.Info) []*manifest.Info {
	seen := make(map[string]struct{}, len(list))
	for _, m := range list {
		seen[m.Path] = struct{}{}
	}
	for _, m := range extra {
		if _, dup := seen[m.Path]; dup {
			continue
		}
		seen[m.Path] = struct{}{}
		list = append(list, m)
	}
	return list
}

func normalizeRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" {
			continue
		}
		r = fspath.Normalize(r)
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

// IsManifestPath reports whether path names a manifest file.
func IsManifestPath(path string) bool {
	return filepath.Base(path) == manifest.FileName
}

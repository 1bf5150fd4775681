// SPDX-License-Identifier: MPL-2.0

package analyzer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/markoverano/npm-command-runner/internal/discovery"
	"github.com/markoverano/npm-command-runner/internal/fsys"
	"github.com/markoverano/npm-command-runner/pkg/fspath"
	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

const (
	// workspaceRootBonus stacks on the discovery score of every known
	// workspace root and dominates all later tie-breaks.
	workspaceRootBonus = 100
	// maxRelevantDistance keeps manifests within this many hops.
	maxRelevantDistance = 3
	// minScriptsForRelevance keeps distant manifests that declare many scripts.
	minScriptsForRelevance = 5
	// dominanceRatio is how far the top score must exceed the runner-up for
	// an unattended pick.
	dominanceRatio = 1.5

	monorepoSuggestions  = 5
	workspaceMaxDistance = 2
	defaultSuggestions   = 3
)

type (
	// Analyzer classifies projects using a Discoverer and a file capability.
	Analyzer struct {
		discoverer Discoverer
		fs         fsys.FS
		logger     *log.Logger
	}

	// Option configures an Analyzer.
	Option func(*Analyzer)
)

// WithLogger sets the analyzer logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// New creates an Analyzer. fs is used for structural pattern detection.
func New(d Discoverer, fs fsys.FS, opts ...Option) *Analyzer {
	a := &Analyzer{discoverer: d, fs: fs}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard)
	}
	return a
}

// Analyze discovers manifests around currentPath and builds its ProjectContext.
func (a *Analyzer) Analyze(ctx context.Context, currentPath string, opts discovery.Options) (*ProjectContext, error) {
	current := fspath.Normalize(currentPath)

	found, err := a.discoverer.Discover(ctx, current, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze project context at %s: %w", current, err)
	}

	relevant := filterRelevant(boostWorkspaceRoots(manifest.CloneAll(found)))
	discovery.SortByScore(relevant)

	projectType := classify(relevant)
	pc := &ProjectContext{
		Type:                 projectType,
		RootPackageJSON:      selectRoot(projectType, relevant),
		RelevantPackageJSONs: relevant,
		WorkspaceRoot:        workspaceRootFor(a.discoverer.WorkspaceRoots(), current),
		CurrentPath:          current,
		Patterns:             DetectPatterns(a.fs, current),
	}
	pc.Recommendations = recommendations(pc)

	a.logger.Debug("project analyzed",
		"path", current,
		"type", projectType,
		"discovered", len(found),
		"relevant", len(relevant),
	)
	return pc, nil
}

// Contextual returns the subset of relevant manifests worth offering in a
// selection prompt: the top five for a monorepo, workspace roots and close
// manifests for a workspace, and the top three otherwise.
func (a *Analyzer) Contextual(ctx context.Context, currentPath string) ([]*manifest.Info, error) {
	pc, err := a.Analyze(ctx, currentPath, discovery.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return pc.Candidates(), nil
}

// ShouldUseSpecific returns a manifest only when no prompt is needed: either
// exactly one relevant manifest exists, or the top score exceeds 1.5 times
// the runner-up. A nil result means the caller must ask the user.
func (a *Analyzer) ShouldUseSpecific(ctx context.Context, currentPath string) (*manifest.Info, error) {
	pc, err := a.Analyze(ctx, currentPath, discovery.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return pc.Specific(), nil
}

func contextualSlice(pc *ProjectContext) []*manifest.Info {
	relevant := pc.RelevantPackageJSONs
	switch pc.Type {
	case TypeMonorepo:
		return relevant[:min(len(relevant), monorepoSuggestions)]
	case TypeWorkspace:
		var out []*manifest.Info
		for _, m := range relevant {
			if m.IsWorkspaceRoot || m.Distance <= workspaceMaxDistance {
				out = append(out, m)
			}
		}
		return out
	default:
		return relevant[:min(len(relevant), defaultSuggestions)]
	}
}

func dominant(relevant []*manifest.Info) *manifest.Info {
	switch len(relevant) {
	case 0:
		return nil
	case 1:
		return relevant[0]
	}
	if relevant[0].Score > relevant[1].Score*dominanceRatio {
		return relevant[0]
	}
	return nil
}

// boostWorkspaceRoots adds the workspace root bonus in place.
func boostWorkspaceRoots(list []*manifest.Info) []*manifest.Info {
	for _, m := range list {
		if m.IsWorkspaceRoot {
			m.Score += workspaceRootBonus
		}
	}
	return list
}

// filterRelevant keeps workspace roots, close manifests, monorepo roots and
// manifests with many scripts.
func filterRelevant(list []*manifest.Info) []*manifest.Info {
	out := make([]*manifest.Info, 0, len(list))
	for _, m := range list {
		if isRelevant(m) {
			out = append(out, m)
		}
	}
	return out
}

func isRelevant(m *manifest.Info) bool {
	return m.IsWorkspaceRoot ||
		m.Distance <= maxRelevantDistance ||
		m.IsMonorepoRoot ||
		len(m.Scripts) >= minScriptsForRelevance
}

// classify applies the shape rules in order; the first match wins.
func classify(relevant []*manifest.Info) ProjectType {
	var anyMonorepo, anyWorkspaceRoot bool
	for _, m := range relevant {
		anyMonorepo = anyMonorepo || m.IsMonorepoRoot
		anyWorkspaceRoot = anyWorkspaceRoot || m.IsWorkspaceRoot
	}
	switch {
	case anyMonorepo:
		return TypeMonorepo
	case len(relevant) > 1 && anyWorkspaceRoot:
		return TypeWorkspace
	case len(relevant) > 1:
		return TypeNested
	default:
		return TypeSinglePackage
	}
}

// selectRoot picks the recommended manifest for the classified type,
// falling back to the highest-scored one.
func selectRoot(t ProjectType, relevant []*manifest.Info) *manifest.Info {
	switch t {
	case TypeMonorepo:
		for _, m := range relevant {
			if m.IsMonorepoRoot {
				return m
			}
		}
	case TypeWorkspace:
		for _, m := range relevant {
			if m.IsWorkspaceRoot {
				return m
			}
		}
	}
	if len(relevant) == 0 {
		return nil
	}
	return relevant[0]
}

// workspaceRootFor returns the first known root containing current, or
// current itself.
func workspaceRootFor(roots []string, current string) string {
	for _, root := range roots {
		if fspath.IsWithin(root, current) {
			return root
		}
	}
	return current
}

// MonorepoMembers returns the manifests in relevant whose directory matches
// one of root's workspace patterns. Negated patterns ("!pkg") exclude.
func MonorepoMembers(root *manifest.Info, relevant []*manifest.Info) []*manifest.Info {
	if root == nil || !root.IsMonorepoRoot {
		return nil
	}
	var include, exclude []string
	for _, p := range root.WorkspacePatterns() {
		p = strings.TrimPrefix(strings.TrimSpace(p), "./")
		if negated, ok := strings.CutPrefix(p, "!"); ok {
			exclude = append(exclude, strings.TrimPrefix(negated, "./"))
			continue
		}
		include = append(include, p)
	}

	var members []*manifest.Info
	for _, m := range relevant {
		if m.Path == root.Path || !fspath.IsWithin(root.Directory, m.Directory) {
			continue
		}
		rel, err := filepath.Rel(root.Directory, m.Directory)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if matchesAny(include, rel) && !matchesAny(exclude, rel) {
			members = append(members, m)
		}
	}
	return members
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(strings.TrimSuffix(p, "/"), rel); err == nil && ok {
			return true
		}
	}
	return false
}

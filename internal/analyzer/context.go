// SPDX-License-Identifier: MPL-2.0

package analyzer

import (
	"context"

	"github.com/markoverano/npm-command-runner/internal/discovery"
	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

const (
	// TypeMonorepo is a project whose relevant manifests include a workspaces declaration.
	TypeMonorepo ProjectType = "monorepo"
	// TypeSinglePackage is a project with at most one relevant manifest.
	TypeSinglePackage ProjectType = "single-package"
	// TypeWorkspace is a multi-manifest project anchored at a known workspace root.
	TypeWorkspace ProjectType = "workspace"
	// TypeNested is a multi-manifest project with no known workspace root.
	TypeNested ProjectType = "nested"
)

type (
	// ProjectType is the classified shape of a project.
	ProjectType string

	// ProjectContext is the result of one analysis. It is freshly built per
	// call and never mutated afterwards.
	ProjectContext struct {
		Type ProjectType `json:"type"`
		// RootPackageJSON is the recommended manifest, nil when none qualifies.
		RootPackageJSON *manifest.Info `json:"rootPackageJson,omitempty"`
		// RelevantPackageJSONs are the retained manifests, highest score first.
		RelevantPackageJSONs []*manifest.Info `json:"relevantPackageJsons"`
		WorkspaceRoot        string           `json:"workspaceRoot"`
		CurrentPath          string           `json:"currentPath"`
		// Recommendations are advisory hints with no behavioral contract.
		Recommendations []string `json:"recommendations"`
		// Patterns are the structural stacks evaluated under CurrentPath.
		Patterns []PatternMatch `json:"patterns"`
	}

	// Discoverer is the discovery capability the analyzer consumes.
	// *discovery.Engine satisfies it.
	Discoverer interface {
		Discover(ctx context.Context, startPath string, opts discovery.Options) ([]*manifest.Info, error)
		WorkspaceRoots() []string
	}
)

// String returns the type name.
func (t ProjectType) String() string {
	return string(t)
}

// DetectedPatterns returns the names of the patterns flagged as detected.
func (c *ProjectContext) DetectedPatterns() []string {
	var names []string
	for _, p := range c.Patterns {
		if p.Detected {
			names = append(names, p.Name)
		}
	}
	return names
}

// Specific returns the manifest that needs no prompt, or nil when the choice
// is ambiguous. See Analyzer.ShouldUseSpecific.
func (c *ProjectContext) Specific() *manifest.Info {
	return dominant(c.RelevantPackageJSONs)
}

// Candidates returns the manifests worth offering in a selection prompt.
// See Analyzer.Contextual.
func (c *ProjectContext) Candidates() []*manifest.Info {
	return contextualSlice(c)
}

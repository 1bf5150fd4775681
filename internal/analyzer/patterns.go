// SPDX-License-Identifier: MPL-2.0

package analyzer

import (
	"path/filepath"
	"slices"

	"github.com/markoverano/npm-command-runner/internal/fsys"
)

// detectionThreshold is the fraction of markers that must exist for a
// pattern to be reported as detected.
const detectionThreshold = 0.6

type (
	// Pattern is a named project stack recognized by marker files or
	// directories relative to the analyzed path.
	Pattern struct {
		Name    string
		Markers []string
	}

	// PatternMatch is the outcome of evaluating one Pattern.
	PatternMatch struct {
		Name string `json:"name"`
		// Confidence is the fraction of markers present, in [0, 1].
		Confidence float64 `json:"confidence"`
		Detected   bool    `json:"detected"`
		// Found lists the markers that exist.
		Found []string `json:"found,omitempty"`
	}
)

var patternCatalog = []Pattern{
	{Name: "react", Markers: []string{"src", "public", "public/index.html"}},
	{Name: "vue", Markers: []string{"src", "src/App.vue", "vue.config.js"}},
	{Name: "angular", Markers: []string{"angular.json", "src", "src/app"}},
	{Name: "next", Markers: []string{"next.config.js", "pages", "public"}},
	{Name: "nuxt", Markers: []string{"nuxt.config.js", "pages", "components"}},
	{Name: "express", Markers: []string{"app.js", "routes", "views"}},
	{Name: "nest", Markers: []string{"nest-cli.json", "src/main.ts", "src/app.module.ts"}},
	{Name: "lerna", Markers: []string{"lerna.json", "packages"}},
	{Name: "nx", Markers: []string{"nx.json", "apps", "libs"}},
	{Name: "rush", Markers: []string{"rush.json", "common/config/rush"}},
	{Name: "yarn-workspace", Markers: []string{"yarn.lock", "packages"}},
	{Name: "npm-workspace", Markers: []string{"package-lock.json", "packages"}},
}

// Patterns returns a copy of the pattern catalog.
func Patterns() []Pattern {
	out := make([]Pattern, len(patternCatalog))
	for i, p := range patternCatalog {
		out[i] = Pattern{Name: p.Name, Markers: slices.Clone(p.Markers)}
	}
	return out
}

// DetectPatterns evaluates every catalog pattern against dir. The result is
// advisory and never feeds into scoring or classification.
func DetectPatterns(fs fsys.FS, dir string) []PatternMatch {
	matches := make([]PatternMatch, 0, len(patternCatalog))
	for _, p := range patternCatalog {
		matches = append(matches, evaluatePattern(fs, dir, p))
	}
	return matches
}

func evaluatePattern(fs fsys.FS, dir string, p Pattern) PatternMatch {
	m := PatternMatch{Name: p.Name}
	if len(p.Markers) == 0 {
		return m
	}
	for _, marker := range p.Markers {
		if fs.Exists(filepath.Join(dir, filepath.FromSlash(marker))) {
			m.Found = append(m.Found, marker)
		}
	}
	m.Confidence = float64(len(m.Found)) / float64(len(p.Markers))
	m.Detected = m.Confidence >= detectionThreshold
	return m
}

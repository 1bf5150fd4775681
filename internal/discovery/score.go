// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"cmp"
	"slices"

	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

const (
	// baseScore is the score of a manifest at distance zero before bonuses.
	baseScore = 100
	// distancePenalty is subtracted per directory hop from the start path.
	distancePenalty = 10
)

type (
	// ScoreContext is the immutable snapshot a discovery run scores against.
	ScoreContext struct {
		// StartPath is the cleaned absolute start path of the run.
		StartPath string
		// ManifestAtStart is true when the result set contains a manifest
		// located exactly at StartPath.
		ManifestAtStart bool
	}

	// ScoreRule is one additive bonus: Weight is added when Applies holds.
	ScoreRule struct {
		Name    string
		Weight  float64
		Applies func(m *manifest.Info, sc ScoreContext) bool
	}
)

// scoreRules is the bonus table. New heuristics are added as rows.
var scoreRules = []ScoreRule{
	{
		Name:    "workspace-root",
		Weight:  50,
		Applies: func(m *manifest.Info, _ ScoreContext) bool { return m.IsWorkspaceRoot },
	},
	{
		Name:    "monorepo-root",
		Weight:  30,
		Applies: func(m *manifest.Info, _ ScoreContext) bool { return m.IsMonorepoRoot },
	},
	{
		Name:    "has-scripts",
		Weight:  20,
		Applies: func(m *manifest.Info, _ ScoreContext) bool { return m.HasScripts() },
	},
	{
		Name:    "common-scripts",
		Weight:  15,
		Applies: func(m *manifest.Info, _ ScoreContext) bool { return m.HasCommonScript() },
	},
	{
		Name:    "at-start-path",
		Weight:  25,
		Applies: func(m *manifest.Info, sc ScoreContext) bool { return m.Directory == sc.StartPath },
	},
	{
		// A user who opened the folder one level above the real project root.
		Name:   "parent-folder-compensation",
		Weight: 40,
		Applies: func(m *manifest.Info, sc ScoreContext) bool {
			return !sc.ManifestAtStart && m.Distance == 1
		},
	},
}

// ScoreRules returns a copy of the bonus table in evaluation order.
func ScoreRules() []ScoreRule {
	return slices.Clone(scoreRules)
}

// Score computes the relevance of m against sc. It is pure and never negative.
func Score(m *manifest.Info, sc ScoreContext) float64 {
	score := max(0, float64(baseScore-m.Distance*distancePenalty))
	for _, rule := range scoreRules {
		if rule.Applies(m, sc) {
			score += rule.Weight
		}
	}
	return score
}

// newScoreContext derives the snapshot for a whole result set. The
// at-start condition depends on set membership, so it must be recomputed
// whenever entries are merged in.
func newScoreContext(startPath string, list []*manifest.Info) ScoreContext {
	return ScoreContext{
		StartPath:       startPath,
		ManifestAtStart: hasManifestAt(list, startPath),
	}
}

// scoreAll rescores every entry and stable-sorts the list by descending score.
func scoreAll(list []*manifest.Info, startPath string) {
	sc := newScoreContext(startPath, list)
	for _, m := range list {
		m.Score = Score(m, sc)
	}
	SortByScore(list)
}

// SortByScore orders list by descending score, keeping the existing order
// between equal scores.
func SortByScore(list []*manifest.Info) {
	slices.SortStableFunc(list, func(a, b *manifest.Info) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

func hasManifestAt(list []*manifest.Info, dir string) bool {
	return slices.ContainsFunc(list, func(m *manifest.Info) bool { return m.Directory == dir })
}

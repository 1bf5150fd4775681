// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/markoverano/npm-command-runner/internal/analyzer"
)

// analysisMarkdown renders a ProjectContext as a markdown report. Paths are
// shown relative to the analyzed directory.
func analysisMarkdown(pc *analyzer.ProjectContext) string {
	var sb strings.Builder
	base := pc.CurrentPath

	sb.WriteString("# Project analysis\n\n")
	fmt.Fprintf(&sb, "- **Type:** %s\n", pc.Type)
	fmt.Fprintf(&sb, "- **Workspace root:** `%s`\n", pc.WorkspaceRoot)
	if pc.RootPackageJSON != nil {
		fmt.Fprintf(&sb, "- **Recommended:** `%s` (%s)\n", relPath(base, pc.RootPackageJSON.Path), pc.RootPackageJSON.DisplayName())
	} else {
		sb.WriteString("- **Recommended:** none\n")
	}

	sb.WriteString("\n## Relevant manifests\n\n")
	if len(pc.RelevantPackageJSONs) == 0 {
		sb.WriteString("No package.json qualifies.\n")
	}
	for _, m := range pc.RelevantPackageJSONs {
		fmt.Fprintf(&sb, "- `%s` %s, score %.0f, %d script(s)\n", relPath(base, m.Path), m.DisplayName(), m.Score, len(m.Scripts))
	}

	if members := analyzer.MonorepoMembers(pc.RootPackageJSON, pc.RelevantPackageJSONs); len(members) > 0 {
		sb.WriteString("\n## Workspace members\n\n")
		for _, m := range members {
			fmt.Fprintf(&sb, "- %s\n", m.DisplayName())
		}
	}

	if detected := pc.DetectedPatterns(); len(detected) > 0 {
		sb.WriteString("\n## Detected stacks\n\n")
		for _, p := range pc.Patterns {
			if p.Detected {
				fmt.Fprintf(&sb, "- %s (%.0f%%)\n", p.Name, p.Confidence*100)
			}
		}
	}

	if len(pc.Recommendations) > 0 {
		sb.WriteString("\n## Recommendations\n\n")
		for _, r := range pc.Recommendations {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
	}
	return sb.String()
}

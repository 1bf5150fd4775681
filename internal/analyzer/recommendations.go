// SPDX-License-Identifier: MPL-2.0

package analyzer

import (
	"fmt"
	"math"
)

// recommendations builds the advisory hints for pc. The wording carries no
// contract; callers display it as-is.
func recommendations(pc *ProjectContext) []string {
	var recs []string
	root := pc.RootPackageJSON
	count := len(pc.RelevantPackageJSONs)

	switch pc.Type {
	case TypeMonorepo:
		recs = append(recs, fmt.Sprintf("Monorepo detected: run workspace-wide scripts from %s", root.Directory))
		if members := MonorepoMembers(root, pc.RelevantPackageJSONs); len(members) > 0 {
			recs = append(recs, fmt.Sprintf("%d nearby package(s) match the workspaces patterns of %s", len(members), root.DisplayName()))
		}
	case TypeWorkspace:
		recs = append(recs, fmt.Sprintf("Multi-root workspace with %d relevant packages; the workspace root %s is preferred", count, root.Directory))
	case TypeNested:
		recs = append(recs, fmt.Sprintf("Found %d nested packages; pick one explicitly or open the package folder directly", count))
	case TypeSinglePackage:
		if root == nil {
			recs = append(recs, fmt.Sprintf("No package.json found near %s; open a folder that contains one", pc.CurrentPath))
		} else {
			recs = append(recs, fmt.Sprintf("Single package %s at %s", root.DisplayName(), root.Directory))
		}
	}

	if root != nil && !root.HasScripts() {
		recs = append(recs, fmt.Sprintf("%s declares no scripts", root.DisplayName()))
	}

	for _, p := range pc.Patterns {
		if p.Detected {
			recs = append(recs, fmt.Sprintf("Detected %s project structure (%d%% of markers)", p.Name, int(math.Round(p.Confidence*100))))
		}
	}

	return recs
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/markoverano/npm-command-runner/internal/discovery"
	"github.com/markoverano/npm-command-runner/pkg/fspath"
	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// writeRanked prints one line per manifest: score, path relative to base,
// display name and root badges.
func writeRanked(w io.Writer, base string, list []*manifest.Info) {
	for _, m := range list {
		fmt.Fprintf(w, "%s  %s  %s%s\n",
			ScoreStyle.Render(fmt.Sprintf("%.0f", m.Score)),
			PathStyle.Render(relPath(base, m.Path)),
			m.DisplayName(),
			badges(m),
		)
	}
}

// writeManifest prints the details of a single manifest.
func writeManifest(w io.Writer, m *manifest.Info) {
	fmt.Fprintln(w, TitleStyle.Render(m.DisplayName())+badges(m))
	fmt.Fprintf(w, "  path:     %s\n", PathStyle.Render(m.Path))
	fmt.Fprintf(w, "  score:    %.0f\n", m.Score)
	fmt.Fprintf(w, "  distance: %d\n", m.Distance)
	fmt.Fprintf(w, "  scripts:  %d\n", len(m.Scripts))
}

// writeDiagnostics prints non-fatal discovery diagnostics, marking
// error-severity entries with the error style.
func writeDiagnostics(w io.Writer, diags []discovery.Diagnostic) {
	for _, d := range diags {
		marker := WarningStyle.Render("!")
		if d.Severity == discovery.SeverityError {
			marker = ErrorStyle.Render("x")
		}
		fmt.Fprintf(w, "%s %s (%s)\n", marker, d.Message, d.Path)
	}
}

func badges(m *manifest.Info) string {
	var b []string
	if m.IsWorkspaceRoot {
		b = append(b, "workspace root")
	}
	if m.IsMonorepoRoot {
		b = append(b, "monorepo root")
	}
	if len(b) == 0 {
		return ""
	}
	return " " + BadgeStyle.Render("["+strings.Join(b, ", ")+"]")
}

// relPath shortens p relative to base when p sits below it.
func relPath(base, p string) string {
	if !fspath.IsWithin(base, p) {
		return p
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return p
	}
	return rel
}

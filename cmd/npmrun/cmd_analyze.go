// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/markoverano/npm-command-runner/internal/analyzer"
	"github.com/markoverano/npm-command-runner/internal/issue"
	"github.com/markoverano/npm-command-runner/pkg/manifest"

	"github.com/spf13/cobra"
)

// pickResult is the JSON shape printed by pick.
type pickResult struct {
	Selected   *manifest.Info   `json:"selected"`
	Candidates []*manifest.Info `json:"candidates"`
}

func newAnalyzeCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Classify the project around a directory",
		Long: `Classify the project around a directory as a monorepo, workspace, nested
package or single package, recommend the root package.json and list the
manifests that matter.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sessionRunE(app, rootFlags, func(cmd *cobra.Command, s *session, args []string) error {
			pc, err := analyze(cmd, app, s, args)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(app.stdout, pc)
			}
			return printAnalysis(app, s, pc)
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newPickCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "pick [path]",
		Short: "Select a package.json without prompting, if one clearly wins",
		Long: `Select a package.json without prompting. The path of the selected manifest is
printed when exactly one is relevant or when the best one scores more than
1.5 times the runner-up. Otherwise the candidates are listed and npmrun
exits with status 2.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sessionRunE(app, rootFlags, func(cmd *cobra.Command, s *session, args []string) error {
			pc, err := analyze(cmd, app, s, args)
			if err != nil {
				return err
			}

			selected := pc.Specific()
			candidates := pc.Candidates()
			if asJSON {
				if err := writeJSON(app.stdout, pickResult{Selected: selected, Candidates: candidates}); err != nil {
					return err
				}
			}

			switch {
			case selected != nil:
				if !asJSON {
					fmt.Fprintln(app.stdout, selected.Path)
				}
				return nil
			case len(candidates) == 0:
				return noManifests(pc.CurrentPath)
			default:
				if !asJSON {
					fmt.Fprintln(app.stdout, TitleStyle.Render("Candidates:"))
					writeRanked(app.stdout, pc.CurrentPath, candidates)
				}
				app.renderIssue(app.stderr, issue.AmbiguousSelectionId, s.markdownStyle())
				return &ExitError{Code: ExitAmbiguous}
			}
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newScriptsCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scripts [path]",
		Short: "List the scripts of the selected package.json",
		Long: `List the scripts of the selected package.json. The manifest is the one pick
would select, falling back to the recommended root. Scripts are printed, never run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sessionRunE(app, rootFlags, func(cmd *cobra.Command, s *session, args []string) error {
			pc, err := analyze(cmd, app, s, args)
			if err != nil {
				return err
			}

			m := pc.Specific()
			if m == nil {
				m = pc.RootPackageJSON
			}
			if m == nil {
				return noManifests(pc.CurrentPath)
			}

			if asJSON {
				return writeJSON(app.stdout, m.Scripts)
			}
			fmt.Fprintln(app.stdout, TitleStyle.Render(m.DisplayName())+" "+SubtitleStyle.Render(m.Path))
			if !m.HasScripts() {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("  (no scripts)"))
				return nil
			}
			for _, name := range m.ScriptNames() {
				fmt.Fprintf(app.stdout, "  %s  %s\n", PathStyle.Render(name), VerboseStyle.Render(m.Scripts[name]))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func analyze(cmd *cobra.Command, app *App, s *session, args []string) (*analyzer.ProjectContext, error) {
	start, err := app.startPath(s, args)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(cmd.Context(), start, s.discoveryOptions())
}

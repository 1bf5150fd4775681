// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/markoverano/npm-command-runner/internal/analyzer"
	"github.com/markoverano/npm-command-runner/internal/issue"
	"github.com/markoverano/npm-command-runner/internal/watch"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newWatchCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var clearScreen bool
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-analyze whenever a package.json changes",
		Long: `Analyze the project once, then watch every package.json under the workspace
root and re-analyze after each change. Each change clears the discovery
cache. Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sessionRunE(app, rootFlags, func(cmd *cobra.Command, s *session, args []string) error {
			start, err := app.startPath(s, args)
			if err != nil {
				return err
			}

			pc, err := s.analyzer.Analyze(cmd.Context(), start, s.discoveryOptions())
			if err != nil {
				return err
			}
			if err := printAnalysis(app, s, pc); err != nil {
				return err
			}

			w, err := watch.New(watchConfig(app, s, pc.WorkspaceRoot, clearScreen, start))
			if err != nil {
				return newServiceError(fmt.Errorf("start watcher: %w", err), issue.WatchFailedId)
			}

			fmt.Fprintf(app.stdout, "\n%s Watching %s for package.json changes (Ctrl+C to stop)...\n\n",
				PathStyle.Render("→"), w.BaseDir())
			return w.Run(cmd.Context())
		}),
	}
	cmd.Flags().BoolVar(&clearScreen, "clear", false, "clear the screen before each re-analysis")
	return cmd
}

// watchConfig builds the watcher settings from configuration. The callback
// drops the whole discovery cache before re-analyzing start.
func watchConfig(app *App, s *session, baseDir string, clearScreen bool, start string) watch.Config {
	return watch.Config{
		Ignore:             s.cfg.Watch.Ignore,
		IncludeNodeModules: s.cfg.Discovery.IncludeNodeModules,
		Debounce:           s.cfg.Watch.Debounce,
		ClearScreen:        clearScreen,
		BaseDir:            baseDir,
		OnChange: func(ctx context.Context, changed []string) error {
			s.engine.ClearCache()
			fmt.Fprintf(app.stdout, "%s %d package.json change(s): %v\n", PathStyle.Render("→"), len(changed), changed)

			pc, err := s.analyzer.Analyze(ctx, start, s.discoveryOptions())
			if err != nil {
				return err
			}
			return printAnalysis(app, s, pc)
		},
		Stdout: app.stdout,
		Stderr: app.stderr,
	}
}

func printAnalysis(app *App, s *session, pc *analyzer.ProjectContext) error {
	out, err := glamour.Render(analysisMarkdown(pc), s.markdownStyle())
	if err != nil {
		return fmt.Errorf("render analysis: %w", err)
	}
	fmt.Fprint(app.stdout, out)
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/markoverano/npm-command-runner/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the npmrun command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "npmrun",
		Short: "Find the package.json you meant",
		Long: TitleStyle.Render("npmrun") + SubtitleStyle.Render(" - find the package.json you meant") + `

npmrun searches up and down from a directory for package.json files, ranks
them by how likely they are to be the project you are working in, and tells
you which one to use. Scripts are listed, never executed.

` + SubtitleStyle.Render("Examples:") + `
  npmrun discover            Rank every package.json around the current directory
  npmrun best                Print the single best manifest
  npmrun analyze             Classify the project (monorepo, workspace, ...)
  npmrun pick                Select a manifest or list candidates when ambiguous
  npmrun scripts             List the scripts of the selected manifest
  npmrun watch               Re-analyze whenever a package.json changes`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/npmrun/config.cue)")
	rootCmd.PersistentFlags().StringArrayVar(&flags.roots, "root", nil, "known workspace root (repeatable; default from config, else the working directory)")

	rootCmd.AddCommand(
		newDiscoverCommand(app, flags),
		newBestCommand(app, flags),
		newAnalyzeCommand(app, flags),
		newPickCommand(app, flags),
		newScriptsCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// sessionRunE adapts a session-based handler to cobra. It opens the session,
// runs fn and prints the issue catalog entry attached to a ServiceError.
func sessionRunE(app *App, flags *rootFlagValues, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := app.open(cmd.Context(), flags)
		if err == nil {
			err = fn(cmd, s, args)
		}

		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			style := "auto"
			if s != nil {
				style = s.markdownStyle()
			}
			app.renderIssue(app.stderr, svcErr.IssueID, style)
		}
		return err
	}
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(rootCmd)),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

// errorHandler prints actionable errors in their long form and stays quiet
// for exit codes whose output was already written.
func errorHandler(rootCmd *cobra.Command) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}
}

// formatErrorForDisplay uses ActionableError.Format when available. Verbose
// mode includes the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

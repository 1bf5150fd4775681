// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/markoverano/npm-command-runner/internal/config"
	"github.com/markoverano/npm-command-runner/internal/issue"
	"github.com/markoverano/npm-command-runner/pkg/fspath"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `npmrun config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage npmrun configuration",
		Long: `Manage npmrun configuration.

Configuration is stored in:
  - Linux: ~/.config/npmrun/config.cue
  - macOS: ~/Library/Application Support/npmrun/config.cue
  - Windows: %APPDATA%\npmrun\config.cue

NPMRUN_CONFIG_DIR overrides the directory. A ./npmrun.cue file is used when
the configuration directory has none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: sessionRunE(app, rootFlags, func(cmd *cobra.Command, s *session, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return err
			}
			out, err := config.Render(s.cfg, f)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, string(out))
			return nil
		}),
	}
	showCmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "output format: cue, toml or json")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		RunE: sessionRunE(app, rootFlags, func(cmd *cobra.Command, s *session, args []string) error {
			if s.cfgPath != "" {
				fmt.Fprintln(app.stdout, s.cfgPath)
				return nil
			}
			dir, err := app.configDirectory()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s\n",
				filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt),
				SubtitleStyle.Render("(not found, using defaults)"))
			return nil
		}),
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(config.LoadOptions{ConfigDirPath: app.configDir})
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("create configuration file").
					WithSuggestion("Check that the configuration directory is writable").
					WithIssue(issue.ConfigLoadFailedId).
					Wrap(err).
					BuildError()
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}

	cfgCmd.AddCommand(showCmd, pathCmd, initCmd)
	return cfgCmd
}

// configDirectory returns the directory holding config.cue.
func (a *App) configDirectory() (string, error) {
	if a.configDir != "" {
		return fspath.Abs(a.configDir)
	}
	return config.ConfigDir()
}

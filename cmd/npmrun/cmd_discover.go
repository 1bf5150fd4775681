// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/markoverano/npm-command-runner/internal/discovery"

	"github.com/spf13/cobra"
)

type discoverFlagValues struct {
	maxUp              int
	maxDown            int
	includeNodeModules bool
	noCache            bool
	json               bool
}

// bind registers the discovery flags. Defaults of -1 mean "use the configured value".
func (f *discoverFlagValues) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxUp, "max-up", -1, "ancestor directories to search (default from config)")
	cmd.Flags().IntVar(&f.maxDown, "max-down", -1, "descendant levels to search (default from config)")
	cmd.Flags().BoolVar(&f.includeNodeModules, "include-node-modules", false, "descend into node_modules")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().BoolVar(&f.json, "json", false, "print JSON")
}

// apply overlays the flags on the configured discovery options.
func (f *discoverFlagValues) apply(s *session) discovery.Options {
	opts := s.discoveryOptions()
	if f.maxUp >= 0 {
		opts.MaxDepthUp = discovery.Depth(f.maxUp)
	}
	if f.maxDown >= 0 {
		opts.MaxDepthDown = discovery.Depth(f.maxDown)
	}
	if f.includeNodeModules {
		opts.IncludeNodeModules = discovery.Flag(true)
	}
	if f.noCache {
		opts.CacheResults = discovery.Flag(false)
	}
	return opts
}

func newDiscoverCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &discoverFlagValues{}
	cmd := &cobra.Command{
		Use:   "discover [path]",
		Short: "Rank every package.json around a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: sessionRunE(app, rootFlags, func(cmd *cobra.Command, s *session, args []string) error {
			start, err := app.startPath(s, args)
			if err != nil {
				return err
			}

			res, err := s.engine.DiscoverWithDiagnostics(cmd.Context(), start, flags.apply(s))
			if err != nil {
				return err
			}

			if flags.json {
				return writeJSON(app.stdout, res.Manifests)
			}
			if s.verbose {
				writeDiagnostics(app.stderr, res.Diagnostics)
			}
			if len(res.Manifests) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("No package.json found."))
				return nil
			}
			writeRanked(app.stdout, start, res.Manifests)
			return nil
		}),
	}
	flags.bind(cmd)
	return cmd
}

func newBestCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &discoverFlagValues{}
	cmd := &cobra.Command{
		Use:   "best [path]",
		Short: "Print the single most relevant package.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: sessionRunE(app, rootFlags, func(cmd *cobra.Command, s *session, args []string) error {
			start, err := app.startPath(s, args)
			if err != nil {
				return err
			}

			best, err := s.engine.Best(cmd.Context(), start, flags.apply(s))
			if err != nil {
				return err
			}
			if best == nil {
				return noManifests(start)
			}

			if flags.json {
				return writeJSON(app.stdout, best)
			}
			writeManifest(app.stdout, best)
			return nil
		}),
	}
	flags.bind(cmd)
	return cmd
}

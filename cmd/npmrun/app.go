// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/markoverano/npm-command-runner/internal/analyzer"
	"github.com/markoverano/npm-command-runner/internal/config"
	"github.com/markoverano/npm-command-runner/internal/discovery"
	"github.com/markoverano/npm-command-runner/internal/fsys"
	"github.com/markoverano/npm-command-runner/internal/issue"
	"github.com/markoverano/npm-command-runner/pkg/fspath"
	"github.com/markoverano/npm-command-runner/pkg/manifest"

	"github.com/charmbracelet/log"
)

// ErrInvalidStartPath is returned when the requested start path does not
// exist or is neither a directory nor a package.json file.
var ErrInvalidStartPath = errors.New("invalid start path")

type (
	// App is the composition root of the CLI. Command handlers receive it and
	// open a session per invocation.
	App struct {
		Config    config.Provider
		FS        fsys.FS
		configDir string
		getwd     func() (string, error)
		stdout    io.Writer
		stderr    io.Writer
		logger    *log.Logger
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		FS     fsys.FS
		// ConfigDir overrides the platform configuration directory.
		ConfigDir string
		Getwd     func() (string, error)
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		verbose    bool
		configPath string
		roots      []string
	}

	// session is everything one command invocation needs: the effective
	// configuration and the engines built from it.
	session struct {
		cfg      *config.Config
		cfgPath  string
		workDir  string
		engine   *discovery.Engine
		analyzer *analyzer.Analyzer
		verbose  bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.FS == nil {
		deps.FS = fsys.OS()
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}

	return &App{
		Config:    deps.Config,
		FS:        deps.FS,
		configDir: deps.ConfigDir,
		getwd:     deps.Getwd,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		logger: log.NewWithOptions(deps.Stderr, log.Options{
			Prefix: config.AppName,
			Level:  log.WarnLevel,
		}),
	}
}

// loadOptions builds the config loading inputs for this invocation.
func (a *App) loadOptions(flags *rootFlagValues, workDir string) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ConfigDirPath:  a.configDir,
		WorkingDir:     workDir,
	}
}

// open loads configuration and builds the discovery engine and analyzer.
// Workspace roots come from --root, then the config file, then the working
// directory.
func (a *App) open(ctx context.Context, flags *rootFlagValues) (*session, error) {
	workDir, err := a.getwd()
	if err != nil {
		return nil, issue.WrapWithContext(err, "resolve working directory", "")
	}
	workDir = fspath.Normalize(workDir)

	cfg, cfgPath, err := a.Config.Load(ctx, a.loadOptions(flags, workDir))
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId)
	}

	verbose := flags.verbose || cfg.UI.Verbose
	if verbose {
		a.logger.SetLevel(log.DebugLevel)
	}
	if cfgPath != "" {
		a.logger.Debug("loaded configuration", "path", cfgPath)
	}

	roots, err := a.resolveRoots(flags.roots, cfg.Roots(), workDir)
	if err != nil {
		return nil, err
	}

	engine, err := discovery.New(a.FS,
		discovery.WithWorkspaceRoots(roots),
		discovery.WithCacheSize(cfg.Discovery.CacheSize),
		discovery.WithLogger(a.logger.WithPrefix(config.AppName+"/discovery")),
	)
	if err != nil {
		return nil, issue.WrapWithContext(err, "create discovery engine", "")
	}

	return &session{
		cfg:      cfg,
		cfgPath:  cfgPath,
		workDir:  workDir,
		engine:   engine,
		analyzer: analyzer.New(engine, a.FS, analyzer.WithLogger(a.logger.WithPrefix(config.AppName+"/analyzer"))),
		verbose:  verbose,
	}, nil
}

func (a *App) resolveRoots(flagRoots, cfgRoots []string, workDir string) ([]string, error) {
	roots := flagRoots
	if len(roots) == 0 {
		roots = cfgRoots
	}
	if len(roots) == 0 {
		return []string{workDir}, nil
	}

	resolved := make([]string, 0, len(roots))
	for _, r := range roots {
		abs, err := absFrom(workDir, r)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, abs)
	}
	return resolved, nil
}

// startPath resolves the optional positional path argument against the
// working directory. A path naming a package.json resolves to its directory.
func (a *App) startPath(s *session, args []string) (string, error) {
	if len(args) == 0 {
		return s.workDir, nil
	}

	p, err := absFrom(s.workDir, args[0])
	if err != nil {
		return "", err
	}
	if !a.FS.Exists(p) {
		return "", newServiceError(fmt.Errorf("%w: %s does not exist", ErrInvalidStartPath, p), issue.InvalidStartPathId)
	}
	if discovery.IsManifestPath(p) {
		p, _ = fspath.Parent(p)
		return p, nil
	}
	if _, err := a.FS.ListDir(p); err != nil {
		return "", newServiceError(fmt.Errorf("%w: %s is not a directory", ErrInvalidStartPath, p), issue.InvalidStartPathId)
	}
	return p, nil
}

// discoveryOptions returns the configured discovery options.
func (s *session) discoveryOptions() discovery.Options {
	return s.cfg.Discovery.Options()
}

// markdownStyle maps the configured color scheme to a glamour style name.
func (s *session) markdownStyle() string {
	switch s.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

func absFrom(workDir, p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	return fspath.Abs(p)
}

// noManifests reports the empty result through the issue catalog.
func noManifests(start string) error {
	return newServiceError(fmt.Errorf("no %s found around %s", manifest.FileName, start), issue.NoManifestFoundId)
}

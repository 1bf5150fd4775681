// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/markoverano/npm-command-runner/internal/issue"
	"github.com/markoverano/npm-command-runner/internal/testutil"
)

func load(t *testing.T, opts LoadOptions) (*Config, string, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup only applies on Linux")
	}

	testXDGPath := filepath.Join(t.TempDir(), "xdg")
	t.Setenv("XDG_CONFIG_HOME", testXDGPath)
	t.Setenv(ConfigDirEnv, "")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if expected := filepath.Join(testXDGPath, AppName); dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %s, want %s", got, dir)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := load(t, LoadOptions{ConfigDirPath: t.TempDir(), WorkingDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want none", path)
	}

	defaults := DefaultConfig()
	if cfg.Discovery != defaults.Discovery || cfg.UI != defaults.UI || cfg.Watch.Debounce != defaults.Watch.Debounce {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, defaults)
	}
	if len(cfg.WorkspaceRoots) != 0 {
		t.Errorf("WorkspaceRoots = %v, want empty", cfg.WorkspaceRoots)
	}
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `
discovery: {
	max_depth_up:         3
	include_node_modules: true
}
workspace_roots: ["/work/a", "/work/b"]
watch: {
	debounce: "2s"
	ignore: ["**/vendor/**"]
}
ui: color_scheme: "dark"
`)

	cfg, path, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("resolved path = %q", path)
	}
	if cfg.Discovery.MaxDepthUp != 3 || !cfg.Discovery.IncludeNodeModules {
		t.Errorf("Discovery = %+v, want file values", cfg.Discovery)
	}
	if cfg.Discovery.MaxDepthDown != 5 || cfg.Discovery.CacheSize != 256 || !cfg.Discovery.CacheResults {
		t.Errorf("Discovery = %+v, want untouched defaults", cfg.Discovery)
	}
	if !slices.Equal(cfg.Roots(), []string{"/work/a", "/work/b"}) {
		t.Errorf("Roots() = %v", cfg.Roots())
	}
	if cfg.Watch.Debounce != 2*time.Second || !slices.Equal(cfg.Watch.Ignore, []string{"**/vendor/**"}) {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ColorScheme = %s, want dark", cfg.UI.ColorScheme)
	}
}

func TestLoad_LocalFallback(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(work, LocalConfigFileName), `ui: verbose: true`)

	cfg, path, err := load(t, LoadOptions{ConfigDirPath: t.TempDir(), WorkingDir: work})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != filepath.Join(work, LocalConfigFileName) || !cfg.UI.Verbose {
		t.Errorf("Load() = %+v from %q, want verbose from local file", cfg.UI, path)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, file, `discovery: max_depth_down: 1`)

	cfg, path, err := load(t, LoadOptions{ConfigFilePath: file})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != file || cfg.Discovery.MaxDepthDown != 1 {
		t.Errorf("Load() = %+v from %q", cfg.Discovery, path)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{name: "negative depth", content: `discovery: max_depth_up: -1`, contains: "max_depth_up"},
		{name: "unknown field", content: `container_engine: "docker"`, contains: "container_engine"},
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`, contains: "color_scheme"},
		{name: "bad duration", content: `watch: debounce: "soon"`, contains: "debounce"},
		{name: "zero duration", content: `watch: debounce: "0s"`, contains: "debounce"},
		{name: "syntax error", content: `discovery: {`, contains: "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), tt.content)

			_, _, err := load(t, LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err, tt.contains)
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.IssueId != issue.ConfigLoadFailedId || !ae.HasSuggestions() {
				t.Errorf("ActionableError = %+v, want config issue with suggestions", ae)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.cue")
	_, _, err := load(t, LoadOptions{ConfigFilePath: missing})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("Load() error = %v, want not found", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "npmrun")
	path, created, err := CreateDefaultConfig(LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created || path != filepath.Join(dir, "config.cue") {
		t.Fatalf("CreateDefaultConfig() = %q, %v", path, created)
	}

	// A second call leaves the existing file alone.
	testutil.MustWriteFile(t, path, `ui: verbose: true`)
	if _, created, err = CreateDefaultConfig(LoadOptions{ConfigDirPath: dir}); err != nil || created {
		t.Fatalf("second CreateDefaultConfig() = %v, %v; want existing file kept", created, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `ui: verbose: true` {
		t.Errorf("existing config was overwritten: %q", data)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.Discovery.MaxDepthUp = 4
	want.WorkspaceRoots = []WorkspaceRoot{"/work/a"}
	want.Watch.Debounce = 1500 * time.Millisecond
	want.Watch.Ignore = []string{"**/tmp/**"}
	want.UI.ColorScheme = ColorSchemeLight

	file := filepath.Join(t.TempDir(), "config.cue")
	testutil.MustWriteFile(t, file, GenerateCUE(want))

	got, _, err := load(t, LoadOptions{ConfigFilePath: file})
	if err != nil {
		t.Fatalf("Load(GenerateCUE()) error = %v", err)
	}
	if got.Discovery != want.Discovery || got.UI != want.UI || got.Watch.Debounce != want.Watch.Debounce {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if !slices.Equal(got.Roots(), want.Roots()) || !slices.Equal(got.Watch.Ignore, want.Watch.Ignore) {
		t.Errorf("round trip lists = %v %v", got.Roots(), got.Watch.Ignore)
	}
}

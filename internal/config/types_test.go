// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/markoverano/npm-command-runner/internal/discovery"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		want    bool
		wantErr bool
	}{
		{ColorSchemeAuto, true, false},
		{ColorSchemeDark, true, false},
		{ColorSchemeLight, true, false},
		{"", false, true},
		{"invalid", false, true},
		{"AUTO", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors, want error", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("ColorScheme(%q).IsValid() returned unexpected errors: %v", tt.scheme, errs)
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "negative up depth", mutate: func(c *Config) { c.Discovery.MaxDepthUp = -1 }, wantErr: ErrInvalidDiscoveryConfig},
		{name: "negative down depth", mutate: func(c *Config) { c.Discovery.MaxDepthDown = -2 }, wantErr: ErrInvalidDiscoveryConfig},
		{name: "zero cache size", mutate: func(c *Config) { c.Discovery.CacheSize = 0 }, wantErr: ErrInvalidDiscoveryConfig},
		{name: "blank workspace root", mutate: func(c *Config) { c.WorkspaceRoots = []WorkspaceRoot{"  "} }, wantErr: ErrInvalidWorkspaceRoot},
		{name: "zero debounce", mutate: func(c *Config) { c.Watch.Debounce = 0 }, wantErr: ErrInvalidWatchConfig},
		{name: "blank ignore pattern", mutate: func(c *Config) { c.Watch.Ignore = []string{""} }, wantErr: ErrInvalidWatchConfig},
		{name: "bad color scheme", mutate: func(c *Config) { c.UI.ColorScheme = "neon" }, wantErr: ErrInvalidUIConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()

			if tt.wantErr == nil {
				if !valid || len(errs) > 0 {
					t.Fatalf("IsValid() = %v, %v; want valid", valid, errs)
				}
				return
			}
			if valid || len(errs) != 1 {
				t.Fatalf("IsValid() = %v, %v; want one error", valid, errs)
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got: %v", errs[0])
			}

			var cfgErr *InvalidConfigError
			if !errors.As(errs[0], &cfgErr) || len(cfgErr.FieldErrors) != 1 {
				t.Fatalf("error should be *InvalidConfigError with one field error, got: %#v", errs[0])
			}
			if !errors.Is(cfgErr.FieldErrors[0], tt.wantErr) {
				t.Errorf("field error %v should wrap %v", cfgErr.FieldErrors[0], tt.wantErr)
			}
		})
	}
}

func TestDiscoveryConfig_Options(t *testing.T) {
	t.Parallel()

	c := DiscoveryConfig{MaxDepthUp: 2, MaxDepthDown: 7, IncludeNodeModules: true, CacheResults: false, CacheSize: 9}
	got := c.Options().Resolve()
	want := discovery.Resolved{MaxDepthUp: 2, MaxDepthDown: 7, IncludeNodeModules: true, CacheResults: false}
	if got != want {
		t.Errorf("Options().Resolve() = %+v, want %+v", got, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Discovery.MaxDepthUp != 10 || cfg.Discovery.MaxDepthDown != 5 {
		t.Errorf("default depths = %d/%d, want 10/5", cfg.Discovery.MaxDepthUp, cfg.Discovery.MaxDepthDown)
	}
	if cfg.Discovery.IncludeNodeModules {
		t.Error("expected node_modules to be excluded by default")
	}
	if !cfg.Discovery.CacheResults || cfg.Discovery.CacheSize != 256 {
		t.Errorf("default cache = %v/%d, want enabled/256", cfg.Discovery.CacheResults, cfg.Discovery.CacheSize)
	}
	if len(cfg.WorkspaceRoots) != 0 {
		t.Errorf("expected no default workspace roots, got %v", cfg.WorkspaceRoots)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("default debounce = %s, want 500ms", cfg.Watch.Debounce)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Verbose {
		t.Errorf("default UI = %+v", cfg.UI)
	}
}

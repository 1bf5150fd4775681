// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/markoverano/npm-command-runner/internal/discovery"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultDebounce is the watch debounce used when none is configured.
	DefaultDebounce = 500 * time.Millisecond
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidWorkspaceRoot is the sentinel error wrapped by InvalidWorkspaceRootError.
	ErrInvalidWorkspaceRoot = errors.New("invalid workspace root")
	// ErrInvalidDiscoveryConfig is the sentinel error wrapped by InvalidDiscoveryConfigError.
	ErrInvalidDiscoveryConfig = errors.New("invalid discovery config")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// WorkspaceRoot is a directory treated as a root of the user's workspace.
	// A valid root must be non-empty and not whitespace-only.
	WorkspaceRoot string

	// InvalidWorkspaceRootError is returned when a WorkspaceRoot is blank.
	InvalidWorkspaceRootError struct {
		Value WorkspaceRoot
	}

	// InvalidDiscoveryConfigError collects field-level errors of a DiscoveryConfig.
	InvalidDiscoveryConfigError struct {
		FieldErrors []error
	}

	// InvalidWatchConfigError collects field-level errors of a WatchConfig.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError collects field-level errors of a UIConfig.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Discovery tunes the manifest search.
		Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
		// WorkspaceRoots lists known workspace root directories.
		WorkspaceRoots []WorkspaceRoot `json:"workspace_roots" mapstructure:"workspace_roots"`
		// Watch configures the manifest watcher.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// DiscoveryConfig mirrors discovery.Options plus the cache capacity.
	DiscoveryConfig struct {
		MaxDepthUp         int  `json:"max_depth_up" toml:"max_depth_up" mapstructure:"max_depth_up"`
		MaxDepthDown       int  `json:"max_depth_down" toml:"max_depth_down" mapstructure:"max_depth_down"`
		IncludeNodeModules bool `json:"include_node_modules" toml:"include_node_modules" mapstructure:"include_node_modules"`
		CacheResults       bool `json:"cache_results" toml:"cache_results" mapstructure:"cache_results"`
		// CacheSize is the number of discovery results kept in the LRU cache.
		CacheSize int `json:"cache_size" toml:"cache_size" mapstructure:"cache_size"`
	}

	// WatchConfig configures `npmrun watch`.
	WatchConfig struct {
		// Debounce is the quiet period before a change burst triggers a refresh.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore holds extra doublestar patterns excluded from watching.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" toml:"verbose" mapstructure:"verbose"`
	}
)

// Options converts the discovery settings to discovery.Options.
func (c DiscoveryConfig) Options() discovery.Options {
	return discovery.Options{
		MaxDepthUp:         discovery.Depth(c.MaxDepthUp),
		MaxDepthDown:       discovery.Depth(c.MaxDepthDown),
		IncludeNodeModules: discovery.Flag(c.IncludeNodeModules),
		CacheResults:       discovery.Flag(c.CacheResults),
	}
}

// IsValid returns whether the DiscoveryConfig has valid fields.
func (c DiscoveryConfig) IsValid() (bool, []error) {
	var errs []error
	if c.MaxDepthUp < 0 {
		errs = append(errs, fmt.Errorf("max_depth_up must be >= 0, got %d", c.MaxDepthUp))
	}
	if c.MaxDepthDown < 0 {
		errs = append(errs, fmt.Errorf("max_depth_down must be >= 0, got %d", c.MaxDepthDown))
	}
	if c.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("cache_size must be >= 1, got %d", c.CacheSize))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidDiscoveryConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDiscoveryConfigError.
func (e *InvalidDiscoveryConfigError) Error() string {
	return fmt.Sprintf("invalid discovery config: %s", joinFieldErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidDiscoveryConfig for errors.Is() compatibility.
func (e *InvalidDiscoveryConfigError) Unwrap() error { return ErrInvalidDiscoveryConfig }

// IsValid returns whether the WatchConfig has valid fields.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %s", c.Debounce))
	}
	for i, pattern := range c.Ignore {
		if strings.TrimSpace(pattern) == "" {
			errs = append(errs, fmt.Errorf("ignore[%d] must be non-empty", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %s", joinFieldErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %s", joinFieldErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Discovery.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, root := range c.WorkspaceRoots {
		if valid, fieldErrs := root.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinFieldErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Roots returns the workspace roots as plain strings.
func (c Config) Roots() []string {
	out := make([]string, len(c.WorkspaceRoots))
	for i, r := range c.WorkspaceRoots {
		out[i] = string(r)
	}
	return out
}

// String returns the string representation of the WorkspaceRoot.
func (r WorkspaceRoot) String() string { return string(r) }

// IsValid returns whether the WorkspaceRoot is valid.
func (r WorkspaceRoot) IsValid() (bool, []error) {
	if strings.TrimSpace(string(r)) == "" {
		return false, []error{&InvalidWorkspaceRootError{Value: r}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWorkspaceRootError.
func (e *InvalidWorkspaceRootError) Error() string {
	return fmt.Sprintf("invalid workspace root %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidWorkspaceRoot for errors.Is() compatibility.
func (e *InvalidWorkspaceRootError) Unwrap() error { return ErrInvalidWorkspaceRoot }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

func joinFieldErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			MaxDepthUp:   discovery.DefaultMaxDepthUp,
			MaxDepthDown: discovery.DefaultMaxDepthDown,
			CacheResults: true,
			CacheSize:    discovery.DefaultCacheSize,
		},
		WorkspaceRoots: []WorkspaceRoot{},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/npmrun/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/npmrun/config.cue on macOS, %APPDATA%\npmrun\config.cue
// on Windows), falling back to ./npmrun.cue. It tunes discovery depth and caching,
// lists known workspace roots, and configures the watcher and UI.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before being
// merged over the built-in defaults.
package config

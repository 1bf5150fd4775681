// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatCUE renders the configuration as a config.cue file.
	FormatCUE Format = "cue"
	// FormatTOML renders the configuration as TOML.
	FormatTOML Format = "toml"
	// FormatJSON renders the configuration as indented JSON.
	FormatJSON Format = "json"
)

// ErrInvalidFormat is returned for an unknown output format.
var ErrInvalidFormat = errors.New("invalid config format")

type (
	// Format selects the encoding used by Render.
	Format string

	// document is the rendered shape of Config: durations are written as
	// strings the way config.cue spells them.
	document struct {
		Discovery      DiscoveryConfig `json:"discovery" toml:"discovery"`
		WorkspaceRoots []string        `json:"workspace_roots" toml:"workspace_roots"`
		Watch          watchDocument   `json:"watch" toml:"watch"`
		UI             UIConfig        `json:"ui" toml:"ui"`
	}

	watchDocument struct {
		Debounce string   `json:"debounce" toml:"debounce"`
		Ignore   []string `json:"ignore" toml:"ignore"`
	}
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCUE, FormatTOML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (valid: cue, toml, json)", ErrInvalidFormat, s)
	}
}

// Render encodes cfg in the given format.
func Render(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatCUE:
		return []byte(GenerateCUE(cfg)), nil
	case FormatTOML:
		out, err := toml.Marshal(newDocument(cfg))
		if err != nil {
			return nil, fmt.Errorf("render config as toml: %w", err)
		}
		return out, nil
	case FormatJSON:
		out, err := json.MarshalIndent(newDocument(cfg), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render config as json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidFormat, format)
	}
}

func newDocument(cfg *Config) document {
	ignore := cfg.Watch.Ignore
	if ignore == nil {
		ignore = []string{}
	}
	return document{
		Discovery:      cfg.Discovery,
		WorkspaceRoots: cfg.Roots(),
		Watch:          watchDocument{Debounce: cfg.Watch.Debounce.String(), Ignore: ignore},
		UI:             cfg.UI,
	}
}

// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
)

// FileName is the manifest file name looked up in every visited directory.
const FileName = "package.json"

// ErrMalformed is returned when manifest content is not a JSON object.
var ErrMalformed = errors.New("malformed manifest")

// commonScripts are the script names that mark a manifest as a likely
// day-to-day entry point.
var commonScripts = []string{"start", "dev", "build", "test", "lint"}

type (
	// Info is one discovered manifest. Name and Version are nil when the file
	// does not declare them as strings. Scripts is never nil.
	Info struct {
		// Path is the absolute path to the manifest file.
		Path string `json:"path"`
		// Directory is the directory containing the manifest.
		Directory string `json:"directory"`
		Name      *string `json:"name,omitempty"`
		Version   *string `json:"version,omitempty"`
		// Scripts maps script names to their command strings.
		Scripts map[string]string `json:"scripts"`
		// IsWorkspaceRoot is true when Directory is one of the known workspace roots.
		IsWorkspaceRoot bool `json:"isWorkspaceRoot"`
		// IsMonorepoRoot is true when the manifest declares workspaces.
		IsMonorepoRoot bool `json:"isMonorepoRoot"`
		// Workspaces is the raw declared workspaces value.
		Workspaces json.RawMessage `json:"workspaces,omitempty"`
		// Distance is the number of directory hops from the discovery start path.
		Distance int `json:"distance"`
		// Score is the relevance computed by the last discovery run.
		Score float64 `json:"score"`
	}

	// workspacesObject is the object form of the workspaces field.
	workspacesObject struct {
		Packages []string `json:"packages"`
	}
)

// Parse decodes manifest content read from path. The returned Info has its
// Distance set and an unset Score. IsWorkspaceRoot is left false; discovery
// sets it against its own known roots.
func Parse(data []byte, path string, distance int) (*Info, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: %s: not a JSON object", ErrMalformed, path)
	}

	info := &Info{
		Path:      path,
		Directory: filepath.Dir(path),
		Name:      optionalString(fields["name"]),
		Version:   optionalString(fields["version"]),
		Scripts:   decodeScripts(fields["scripts"]),
		Distance:  distance,
	}

	if raw, ok := fields["workspaces"]; ok && !isNull(raw) {
		info.Workspaces = slices.Clone(raw)
		info.IsMonorepoRoot = declaresWorkspaces(raw)
	}

	return info, nil
}

// optionalString returns a pointer to the decoded string, or nil when the
// value is absent or not a string.
func optionalString(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// decodeScripts keeps only string-valued scripts.
func decodeScripts(raw json.RawMessage) map[string]string {
	scripts := make(map[string]string)
	if len(raw) == 0 {
		return scripts
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return scripts
	}
	for name, value := range entries {
		var cmd string
		if err := json.Unmarshal(value, &cmd); err == nil {
			scripts[name] = cmd
		}
	}
	return scripts
}

// declaresWorkspaces accepts an array of patterns or an object with a
// packages array.
func declaresWorkspaces(raw json.RawMessage) bool {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	pkgs, ok := obj["packages"]
	if !ok {
		return false
	}
	var packages []json.RawMessage
	return json.Unmarshal(pkgs, &packages) == nil && packages != nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// WorkspacePatterns returns the declared workspace glob patterns, or nil when
// the manifest is not a monorepo root. Non-string entries are skipped.
func (m *Info) WorkspacePatterns() []string {
	if !m.IsMonorepoRoot {
		return nil
	}
	var patterns []string
	if err := json.Unmarshal(m.Workspaces, &patterns); err == nil {
		return patterns
	}
	var obj workspacesObject
	if err := json.Unmarshal(m.Workspaces, &obj); err == nil {
		return obj.Packages
	}
	// Mixed arrays: keep the string entries.
	var mixed []json.RawMessage
	if err := json.Unmarshal(m.Workspaces, &mixed); err == nil {
		for _, raw := range mixed {
			if s := optionalString(raw); s != nil {
				patterns = append(patterns, *s)
			}
		}
	}
	return patterns
}

// HasScripts reports whether the manifest declares at least one script.
func (m *Info) HasScripts() bool {
	return len(m.Scripts) > 0
}

// HasCommonScript reports whether any of start, dev, build, test or lint is declared.
func (m *Info) HasCommonScript() bool {
	for _, name := range commonScripts {
		if _, ok := m.Scripts[name]; ok {
			return true
		}
	}
	return false
}

// ScriptNames returns the declared script names in lexical order.
func (m *Info) ScriptNames() []string {
	return slices.Sorted(maps.Keys(m.Scripts))
}

// DisplayName returns the package name, or the directory base name when the
// manifest has none.
func (m *Info) DisplayName() string {
	if m.Name != nil && *m.Name != "" {
		return *m.Name
	}
	return filepath.Base(m.Directory)
}

// Clone returns a deep copy so cached results cannot be mutated through
// values handed to callers.
func (m *Info) Clone() *Info {
	if m == nil {
		return nil
	}
	c := *m
	if m.Name != nil {
		name := *m.Name
		c.Name = &name
	}
	if m.Version != nil {
		version := *m.Version
		c.Version = &version
	}
	c.Scripts = maps.Clone(m.Scripts)
	if c.Scripts == nil {
		c.Scripts = make(map[string]string)
	}
	c.Workspaces = slices.Clone(m.Workspaces)
	return &c
}

// CloneAll deep-copies a result list.
func CloneAll(list []*Info) []*Info {
	out := make([]*Info, len(list))
	for i, m := range list {
		out[i] = m.Clone()
	}
	return out
}

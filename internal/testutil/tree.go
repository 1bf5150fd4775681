// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/markoverano/npm-command-runner/internal/fsys"
)

// Tree maps slash-separated paths, relative to a root directory, to file
// contents. Keys ending in "/" create empty directories.
type Tree map[string]string

// WriteTree materializes tree under root on the real filesystem.
func WriteTree(t testing.TB, root string, tree Tree) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		if strings.HasSuffix(rel, "/") {
			MustMkdirAll(t, path, 0o755)
			continue
		}
		MustWriteFile(t, path, content)
	}
}

// MemTree materializes tree under root in an in-memory filesystem and returns
// the file capability over it plus the raw afero.Fs for later edits.
func MemTree(t testing.TB, root string, tree Tree) (fsys.FS, afero.Fs) {
	t.Helper()
	fs, mem := fsys.Memory()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		if strings.HasSuffix(rel, "/") {
			if err := mem.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("failed to create directory %s: %v", path, err)
			}
			continue
		}
		if err := mem.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := afero.WriteFile(mem, path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return fs, mem
}

// Manifest renders package.json content with the given name and one
// "echo <script>" command per script name. An empty name is omitted.
func Manifest(name string, scripts ...string) string {
	doc := map[string]any{}
	if name != "" {
		doc["name"] = name
	}
	if len(scripts) > 0 {
		s := make(map[string]string, len(scripts))
		for _, script := range scripts {
			s[script] = "echo " + script
		}
		doc["scripts"] = s
	}
	data, _ := json.Marshal(doc)
	return string(data)
}

// MonorepoManifest renders a package.json declaring workspaces patterns.
func MonorepoManifest(name string, patterns ...string) string {
	data, _ := json.Marshal(map[string]any{
		"name":       name,
		"workspaces": append([]string{}, patterns...),
	})
	return string(data)
}

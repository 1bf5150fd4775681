// SPDX-License-Identifier: MPL-2.0

package fsys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestMemory_ExistsReadList(t *testing.T) {
	t.Parallel()

	fs, mem := Memory()
	dir := filepath.Join(string(filepath.Separator), "repo")
	if err := mem.MkdirAll(filepath.Join(dir, "pkgs"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := afero.WriteFile(mem, filepath.Join(dir, "package.json"), []byte(`{"name":"repo"}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if !fs.Exists(filepath.Join(dir, "package.json")) {
		t.Error("Exists() = false for written file")
	}
	if fs.Exists(filepath.Join(dir, "missing.json")) {
		t.Error("Exists() = true for missing file")
	}

	data, err := fs.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != `{"name":"repo"}` {
		t.Errorf("ReadFile() = %q", data)
	}

	entries, err := fs.ListDir(dir)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListDir() returned %d entries, want 2", len(entries))
	}
	if entries[0].Name != "package.json" || entries[0].IsDir {
		t.Errorf("entries[0] = %+v, want package.json file", entries[0])
	}
	if entries[1].Name != "pkgs" || !entries[1].IsDir {
		t.Errorf("entries[1] = %+v, want pkgs directory", entries[1])
	}
}

func TestListDir_MissingDirectory(t *testing.T) {
	t.Parallel()

	fs, _ := Memory()
	if _, err := fs.ListDir(filepath.Join(string(filepath.Separator), "nope")); err == nil {
		t.Error("ListDir() on missing directory should return an error")
	}
}

func TestOS_ReadsRealFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	fs := OS()
	if !fs.Exists(path) {
		t.Errorf("Exists(%q) = false", path)
	}
	entries, err := fs.ListDir(dir)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "package.json" {
		t.Errorf("ListDir() = %+v, want [package.json]", entries)
	}
}

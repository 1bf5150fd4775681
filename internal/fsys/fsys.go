// SPDX-License-Identifier: MPL-2.0

package fsys

import (
	"fmt"

	"github.com/spf13/afero"
)

type (
	// Entry is one child of a listed directory.
	Entry struct {
		Name  string
		IsDir bool
	}

	// FS is the read-only file capability used by discovery and analysis.
	// Implementations must be safe for concurrent use.
	FS interface {
		// Exists reports whether path names an existing file or directory.
		Exists(path string) bool
		// ReadFile returns the full contents of the file at path.
		ReadFile(path string) ([]byte, error)
		// ListDir returns the children of dir in lexical order. Callers treat
		// an error as "no children".
		ListDir(dir string) ([]Entry, error)
	}

	aferoFS struct {
		fs afero.Fs
	}
)

// New wraps an afero filesystem as an FS.
func New(fs afero.Fs) FS {
	return &aferoFS{fs: fs}
}

// OS returns an FS backed by the host filesystem.
func OS() FS {
	return New(afero.NewOsFs())
}

// Memory returns an FS backed by an empty in-memory filesystem together with
// the underlying afero.Fs so callers can populate it.
func Memory() (FS, afero.Fs) {
	mem := afero.NewMemMapFs()
	return New(mem), mem
}

func (a *aferoFS) Exists(path string) bool {
	ok, err := afero.Exists(a.fs, path)
	return err == nil && ok
}

func (a *aferoFS) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (a *aferoFS) ListDir(dir string) ([]Entry, error) {
	infos, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{Name: info.Name(), IsDir: info.IsDir()})
	}
	return entries, nil
}

// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/markoverano/npm-command-runner/internal/discovery"
	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not set.
// Editors often write a temp file and rename it; both events land in one
// window.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns are doublestar globs, relative to BaseDir, selecting the
		// files whose changes are reported. Empty means DefaultPatterns.
		Patterns []string

		// Ignore are extra doublestar globs merged with DefaultIgnores.
		Ignore []string

		// IncludeNodeModules watches node_modules directories too.
		IncludeNodeModules bool

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values fall back to DefaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each
		// callback. No terminal detection is performed.
		ClearScreen bool

		// BaseDir is the root directory to watch. Empty means the working
		// directory.
		BaseDir string

		// OnChange receives the deduplicated, sorted list of changed paths
		// relative to BaseDir. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr default to os.Stdout and os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Watcher fires a debounced callback when matching files change. Run
	// must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		ignores  []string
		stdout   io.Writer
		stderr   io.Writer
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}
)

// DefaultPatterns returns the patterns watched when Config.Patterns is empty.
func DefaultPatterns() []string {
	return []string{"**/" + manifest.FileName}
}

// DefaultIgnores returns the built-in ignore patterns: VCS metadata, hidden
// directories, every directory discovery skips and, unless includeNodeModules
// is set, node_modules.
func DefaultIgnores(includeNodeModules bool) []string {
	ignores := []string{"**/.git/**", "**/.*/**"}
	if !includeNodeModules {
		ignores = append(ignores, "**/node_modules/**")
	}
	for _, dir := range discovery.SkippedDirs() {
		ignores = append(ignores, "**/"+dir+"/**")
	}
	return ignores
}

// New creates a Watcher and registers every non-ignored directory under
// BaseDir with fsnotify.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: patterns,
		ignores:  append(DefaultIgnores(cfg.IncludeNodeModules), cfg.Ignore...),
		stdout:   writerOr(cfg.Stdout, os.Stdout),
		stderr:   writerOr(cfg.Stderr, os.Stderr),
		debounce: cfg.Debounce,
		baseDir:  absBase,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if _, err := w.addTree(absBase); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// BaseDir returns the absolute directory being watched.
func (w *Watcher) BaseDir() string {
	return w.baseDir
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	schedule := func(fire func()) {
		if timer == nil {
			timer = time.AfterFunc(w.debounce, fire)
			return
		}
		timer.Reset(w.debounce)
	}

	var fire func()
	fire = func() {
		if ctx.Err() != nil {
			return
		}
		// Skip while a previous callback is still running; the retry keeps
		// the pending set from being dropped.
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			schedule(fire)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Op == fsnotify.Chmod {
				continue
			}

			changed := w.handleEvent(evt)
			if len(changed) == 0 {
				continue
			}

			mu.Lock()
			for _, rel := range changed {
				pending[rel] = struct{}{}
			}
			schedule(fire)
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// handleEvent returns the relative paths an event reports as changed. A
// created directory is added to the watch list and any manifests already
// inside it count as changed, since they never produce their own events.
func (w *Watcher) handleEvent(evt fsnotify.Event) []string {
	rel, err := filepath.Rel(w.baseDir, evt.Name)
	if err != nil {
		rel = evt.Name
	}
	if w.isIgnored(rel) {
		return nil
	}

	if evt.Has(fsnotify.Create) {
		if info, statErr := os.Stat(evt.Name); statErr == nil && info.IsDir() {
			found, addErr := w.addTree(evt.Name)
			if addErr != nil {
				fmt.Fprintf(w.stderr, "watch: add new directory %q: %v\n", evt.Name, addErr)
			}
			return found
		}
	}

	if !w.matches(rel) {
		return nil
	}
	return []string{filepath.ToSlash(rel)}
}

// addTree walks root, adds every non-ignored directory to fsnotify and
// returns the matching files it saw, relative to BaseDir.
func (w *Watcher) addTree(root string) ([]string, error) {
	var found []string
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			fmt.Fprintf(w.stderr, "watch: skipping inaccessible path %q: %v\n", path, walkDirErr)
			return nil //nolint:nilerr // inaccessible paths are skipped, not fatal
		}

		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // paths outside BaseDir are not watched
		}

		if !d.IsDir() {
			if w.matches(rel) && !w.isIgnored(rel) {
				found = append(found, filepath.ToSlash(rel))
			}
			return nil
		}

		if rel != "." && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return found, fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return found, nil
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matches(rel string) bool {
	return matchAny(w.patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

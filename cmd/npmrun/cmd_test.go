// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markoverano/npm-command-runner/internal/issue"
	"github.com/markoverano/npm-command-runner/internal/testutil"
	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// newTestApp returns an App rooted at workDir with an empty config directory.
func newTestApp(t *testing.T, workDir string, stdout, stderr *bytes.Buffer) *App {
	t.Helper()
	return NewApp(Dependencies{
		ConfigDir: filepath.Join(t.TempDir(), "config"),
		Getwd:     func() (string, error) { return workDir, nil },
		Stdout:    stdout,
		Stderr:    stderr,
	})
}

func runCLI(t *testing.T, workDir string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(newTestApp(t, workDir, &stdout, &stderr))
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// monorepoTree is a workspace declaring packages/* with one member and a
// build output directory that discovery must skip.
func monorepoTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.Tree{
		"package.json":             testutil.MonorepoManifest("acme", "packages/*"),
		"packages/ui/package.json": testutil.Manifest("ui", "build", "test"),
		"dist/package.json":        testutil.Manifest("dist-copy", "build"),
	})
	return dir
}

func decodeManifests(t *testing.T, out string) []*manifest.Info {
	t.Helper()
	var list []*manifest.Info
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return list
}

func assertServiceIssue(t *testing.T, err error, want issue.Id) {
	t.Helper()
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want *ServiceError", err)
	}
	if svcErr.IssueID != want {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, want)
	}
}

func TestDiscover_JSON(t *testing.T) {
	t.Parallel()

	dir := monorepoTree(t)
	res := runCLI(t, dir, "discover", "--json")
	if res.err != nil {
		t.Fatalf("discover: %v\n%s", res.err, res.stderr)
	}

	list := decodeManifests(t, res.stdout)
	if len(list) != 2 {
		t.Fatalf("got %d manifests, want 2", len(list))
	}
	if want := filepath.Join(dir, "package.json"); list[0].Path != want {
		t.Errorf("first = %s, want %s", list[0].Path, want)
	}
	if !list[0].IsWorkspaceRoot || !list[0].IsMonorepoRoot {
		t.Errorf("root flags = workspace %t, monorepo %t", list[0].IsWorkspaceRoot, list[0].IsMonorepoRoot)
	}
	for _, m := range list {
		if strings.Contains(m.Path, "dist") {
			t.Errorf("skipped directory reported: %s", m.Path)
		}
	}
}

func TestDiscover_Flags(t *testing.T) {
	t.Parallel()

	dir := monorepoTree(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"defaults", nil, 2},
		{"no descent", []string{"--max-down", "0"}, 1},
		{"no cache", []string{"--no-cache"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := append([]string{"discover", "--json"}, tt.args...)
			res := runCLI(t, dir, args...)
			if res.err != nil {
				t.Fatalf("discover: %v", res.err)
			}
			if got := len(decodeManifests(t, res.stdout)); got != tt.want {
				t.Errorf("got %d manifests, want %d", got, tt.want)
			}
		})
	}
}

func TestDiscover_TextOutput(t *testing.T) {
	t.Parallel()

	dir := monorepoTree(t)
	res := runCLI(t, dir, "discover")
	if res.err != nil {
		t.Fatalf("discover: %v", res.err)
	}
	for _, want := range []string{"package.json", filepath.Join("packages", "ui", "package.json"), "acme", "monorepo root"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestDiscover_Empty(t *testing.T) {
	t.Parallel()

	res := runCLI(t, t.TempDir(), "discover", "--max-up", "0")
	if res.err != nil {
		t.Fatalf("discover: %v", res.err)
	}
	if !strings.Contains(res.stdout, "No package.json found.") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestDiscover_InvalidStartPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.Tree{"README.md": "# readme"})

	for _, arg := range []string{"missing", "README.md"} {
		res := runCLI(t, dir, "discover", arg)
		if !errors.Is(res.err, ErrInvalidStartPath) {
			t.Errorf("discover %s: error = %v, want ErrInvalidStartPath", arg, res.err)
		}
		assertServiceIssue(t, res.err, issue.InvalidStartPathId)
		if !strings.Contains(res.stderr, "Start path is not usable") {
			t.Errorf("discover %s: stderr missing issue text:\n%s", arg, res.stderr)
		}
	}
}

func TestBest_PrefersParentOfEmptyStart(t *testing.T) {
	t.Parallel()

	dir := monorepoTree(t)
	res := runCLI(t, dir, "best", "--json", "packages")
	if res.err != nil {
		t.Fatalf("best: %v", res.err)
	}

	var best manifest.Info
	if err := json.Unmarshal([]byte(res.stdout), &best); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := filepath.Join(dir, "package.json"); best.Path != want {
		t.Errorf("best = %s, want %s", best.Path, want)
	}
}

func TestBest_AcceptsManifestFile(t *testing.T) {
	t.Parallel()

	dir := monorepoTree(t)
	res := runCLI(t, dir, "best", filepath.Join("packages", "ui", "package.json"))
	if res.err != nil {
		t.Fatalf("best: %v", res.err)
	}
	if !strings.Contains(res.stdout, "ui") {
		t.Errorf("stdout = %q, want ui manifest", res.stdout)
	}
}

func TestBest_NoManifest(t *testing.T) {
	t.Parallel()

	res := runCLI(t, t.TempDir(), "best", "--max-up", "0")
	assertServiceIssue(t, res.err, issue.NoManifestFoundId)
	if !strings.Contains(res.stderr, "No package.json found") {
		t.Errorf("stderr missing issue text:\n%s", res.stderr)
	}
}

func TestPick_Dominant(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.Tree{
		"package.json": testutil.Manifest("solo", "start"),
	})

	res := runCLI(t, dir, "pick")
	if res.err != nil {
		t.Fatalf("pick: %v", res.err)
	}
	if got, want := strings.TrimSpace(res.stdout), filepath.Join(dir, "package.json"); got != want {
		t.Errorf("pick = %q, want %q", got, want)
	}
}

func TestPick_Ambiguous(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.Tree{
		"api/package.json": testutil.Manifest("api", "start"),
		"web/package.json": testutil.Manifest("web", "start"),
	})

	res := runCLI(t, dir, "pick")
	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) || exitErr.Code != ExitAmbiguous {
		t.Fatalf("error = %v, want ExitError code %d", res.err, ExitAmbiguous)
	}
	for _, want := range []string{"Candidates:", "api", "web"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if !strings.Contains(res.stderr, "More than one package.json fits") {
		t.Errorf("stderr missing issue text:\n%s", res.stderr)
	}
}

func TestPick_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.Tree{
		"api/package.json": testutil.Manifest("api", "start"),
		"web/package.json": testutil.Manifest("web", "start"),
	})

	res := runCLI(t, dir, "pick", "--json")
	var got pickResult
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, res.stdout)
	}
	if got.Selected != nil {
		t.Errorf("selected = %s, want nil", got.Selected.Path)
	}
	if len(got.Candidates) != 2 {
		t.Errorf("got %d candidates, want 2", len(got.Candidates))
	}
}

func TestScripts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.Tree{
		"package.json": testutil.Manifest("app", "test", "build"),
	})

	res := runCLI(t, dir, "scripts")
	if res.err != nil {
		t.Fatalf("scripts: %v", res.err)
	}
	build := strings.Index(res.stdout, "echo build")
	test := strings.Index(res.stdout, "echo test")
	if build < 0 || test < 0 || build > test {
		t.Errorf("scripts not listed in order:\n%s", res.stdout)
	}

	res = runCLI(t, dir, "scripts", "--json")
	var scripts map[string]string
	if err := json.Unmarshal([]byte(res.stdout), &scripts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scripts["build"] != "echo build" {
		t.Errorf("scripts = %v", scripts)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	dir := monorepoTree(t)

	res := runCLI(t, dir, "analyze", "--json")
	if res.err != nil {
		t.Fatalf("analyze: %v", res.err)
	}
	var pc struct {
		Type            string `json:"type"`
		RootPackageJSON struct {
			Path string `json:"path"`
		} `json:"rootPackageJson"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &pc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pc.Type != "monorepo" {
		t.Errorf("type = %q, want monorepo", pc.Type)
	}
	if want := filepath.Join(dir, "package.json"); pc.RootPackageJSON.Path != want {
		t.Errorf("root = %q, want %q", pc.RootPackageJSON.Path, want)
	}

	res = runCLI(t, dir, "analyze")
	if res.err != nil {
		t.Fatalf("analyze: %v", res.err)
	}
	for _, want := range []string{"Project analysis", "monorepo", "Workspace members", "ui"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("report missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestRootFlag(t *testing.T) {
	t.Parallel()

	dir := monorepoTree(t)
	res := runCLI(t, dir, "discover", "--json", "--root", filepath.Join("packages", "ui"))
	if res.err != nil {
		t.Fatalf("discover: %v", res.err)
	}
	for _, m := range decodeManifests(t, res.stdout) {
		wantRoot := m.Directory == filepath.Join(dir, "packages", "ui")
		if m.IsWorkspaceRoot != wantRoot {
			t.Errorf("%s: IsWorkspaceRoot = %t, want %t", m.Path, m.IsWorkspaceRoot, wantRoot)
		}
	}
}

func TestLocalConfigFile(t *testing.T) {
	t.Parallel()

	dir := monorepoTree(t)
	testutil.WriteTree(t, dir, testutil.Tree{
		"npmrun.cue": "discovery: max_depth_down: 0\n",
	})

	res := runCLI(t, dir, "discover", "--json")
	if res.err != nil {
		t.Fatalf("discover: %v", res.err)
	}
	if got := len(decodeManifests(t, res.stdout)); got != 1 {
		t.Errorf("got %d manifests, want 1 with max_depth_down 0", got)
	}
}

func TestWatchConfig_OnChangeReanalyzes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.Tree{
		"package.json": testutil.Manifest("before", "start"),
	})

	var stdout, stderr bytes.Buffer
	app := newTestApp(t, dir, &stdout, &stderr)
	s, err := app.open(context.Background(), &rootFlagValues{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.analyzer.Analyze(context.Background(), dir, s.discoveryOptions()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if s.engine.CachedResults() == 0 {
		t.Fatal("expected a cached discovery result")
	}

	testutil.WriteTree(t, dir, testutil.Tree{
		"package.json": testutil.Manifest("after", "start"),
	})
	cfg := watchConfig(app, s, dir, false, dir)
	if err := cfg.OnChange(context.Background(), []string{"package.json"}); err != nil {
		t.Fatalf("OnChange: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "1 package.json change(s)") {
		t.Errorf("missing change line:\n%s", out)
	}
	if !strings.Contains(out, "after") || strings.Contains(out, "before") {
		t.Errorf("analysis not refreshed:\n%s", out)
	}
	if cfg.Debounce != s.cfg.Watch.Debounce {
		t.Errorf("Debounce = %v, want %v", cfg.Debounce, s.cfg.Watch.Debounce)
	}
}

func TestWorkingDirectoryFailure(t *testing.T) {
	t.Parallel()

	errGone := errors.New("getwd: no such file or directory")
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		ConfigDir: filepath.Join(t.TempDir(), "config"),
		Getwd:     func() (string, error) { return "", errGone },
		Stdout:    &stdout,
		Stderr:    &stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs([]string{"discover"})
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(context.Background())
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *issue.ActionableError", err)
	}
	if ae.Operation != "resolve working directory" || !errors.Is(err, errGone) {
		t.Errorf("error = %q, want wrapped working directory failure", err)
	}
}

// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	path := filepath.Join(string(filepath.Separator), "repo", FileName)

	tests := []struct {
		name         string
		content      string
		wantName     *string
		wantVersion  *string
		wantScripts  int
		wantMonorepo bool
	}{
		{
			name:        "full manifest",
			content:     `{"name":"web","version":"1.2.3","scripts":{"build":"tsc","test":"jest"}}`,
			wantName:    ptr("web"),
			wantVersion: ptr("1.2.3"),
			wantScripts: 2,
		},
		{
			name:    "empty object",
			content: `{}`,
		},
		{
			name:     "non-string name is absent",
			content:  `{"name":42,"version":["x"]}`,
			wantName: nil,
		},
		{
			name:        "non-string scripts are dropped",
			content:     `{"scripts":{"build":"make","bad":7}}`,
			wantScripts: 1,
		},
		{
			name:         "workspaces array",
			content:      `{"workspaces":["packages/*"]}`,
			wantMonorepo: true,
		},
		{
			name:         "workspaces object with packages",
			content:      `{"workspaces":{"packages":["apps/*"],"nohoist":["**/x"]}}`,
			wantMonorepo: true,
		},
		{
			name:    "workspaces object without packages",
			content: `{"workspaces":{"nohoist":["**/x"]}}`,
		},
		{
			name:    "workspaces null",
			content: `{"workspaces":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, err := Parse([]byte(tt.content), path, 3)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if info.Path != path || info.Directory != filepath.Dir(path) {
				t.Errorf("Parse() path/directory = %q/%q", info.Path, info.Directory)
			}
			if info.Distance != 3 {
				t.Errorf("Distance = %d, want 3", info.Distance)
			}
			if !equalOptional(info.Name, tt.wantName) {
				t.Errorf("Name = %v, want %v", deref(info.Name), deref(tt.wantName))
			}
			if !equalOptional(info.Version, tt.wantVersion) {
				t.Errorf("Version = %v, want %v", deref(info.Version), deref(tt.wantVersion))
			}
			if info.Scripts == nil {
				t.Fatal("Scripts must never be nil")
			}
			if len(info.Scripts) != tt.wantScripts {
				t.Errorf("len(Scripts) = %d, want %d", len(info.Scripts), tt.wantScripts)
			}
			if info.IsMonorepoRoot != tt.wantMonorepo {
				t.Errorf("IsMonorepoRoot = %v, want %v", info.IsMonorepoRoot, tt.wantMonorepo)
			}
			if info.IsMonorepoRoot && len(info.Workspaces) == 0 {
				t.Error("IsMonorepoRoot implies a preserved Workspaces value")
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	for _, content := range []string{`{"name":`, `[]`, `null`, `"text"`, ``} {
		_, err := Parse([]byte(content), "/x/package.json", 0)
		if err == nil {
			t.Errorf("Parse(%q) expected error", content)
			continue
		}
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error %v does not wrap ErrMalformed", content, err)
		}
	}
}

func TestWorkspacePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content string
		want    []string
	}{
		{content: `{"workspaces":["packages/*","apps/*"]}`, want: []string{"packages/*", "apps/*"}},
		{content: `{"workspaces":{"packages":["libs/*"]}}`, want: []string{"libs/*"}},
		{content: `{"workspaces":["packages/*",3]}`, want: []string{"packages/*"}},
		{content: `{"name":"single"}`, want: nil},
	}

	for _, tt := range tests {
		info, err := Parse([]byte(tt.content), "/r/package.json", 0)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", tt.content, err)
		}
		if got := info.WorkspacePatterns(); !slices.Equal(got, tt.want) {
			t.Errorf("WorkspacePatterns(%s) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestScriptHelpers(t *testing.T) {
	t.Parallel()

	info, err := Parse([]byte(`{"scripts":{"lint":"eslint .","deploy":"./deploy.sh"}}`), "/r/package.json", 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !info.HasScripts() {
		t.Error("HasScripts() = false")
	}
	if !info.HasCommonScript() {
		t.Error("HasCommonScript() = false, lint is common")
	}
	if got := info.ScriptNames(); !slices.Equal(got, []string{"deploy", "lint"}) {
		t.Errorf("ScriptNames() = %v", got)
	}

	bare, _ := Parse([]byte(`{"scripts":{"deploy":"x"}}`), "/r/package.json", 0)
	if bare.HasCommonScript() {
		t.Error("HasCommonScript() = true without common scripts")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	named, _ := Parse([]byte(`{"name":"@acme/web"}`), "/r/web/package.json", 0)
	if got := named.DisplayName(); got != "@acme/web" {
		t.Errorf("DisplayName() = %q", got)
	}
	anon, _ := Parse([]byte(`{}`), filepath.Join(string(filepath.Separator), "r", "web", FileName), 0)
	if got := anon.DisplayName(); got != "web" {
		t.Errorf("DisplayName() = %q, want directory base", got)
	}
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	orig, _ := Parse([]byte(`{"name":"a","scripts":{"build":"x"},"workspaces":["p/*"]}`), "/r/package.json", 1)
	c := orig.Clone()
	*c.Name = "changed"
	c.Scripts["build"] = "y"
	c.Workspaces[0] = '{'
	c.Score = 99

	if *orig.Name != "a" || orig.Scripts["build"] != "x" || orig.Workspaces[0] != '[' || orig.Score != 0 {
		t.Error("Clone() shares state with the original")
	}
}

func ptr(s string) *string { return &s }

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseFile_BasicAndWildcard(t *testing.T) {
	d := t.TempDir()
	cfg := `
Host *
  User default
  Port 22

Host app-*
  User wildcard

Host app-1
  HostName 10.0.0.10
`
	path := filepath.Join(d, "config")
	writeFile(t, path, cfg)

	res, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Aliases(); !reflect.DeepEqual(got, []string{"app-1"}) {
		t.Fatalf("expected only the concrete alias, got %v", got)
	}
	if len(res.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(res.Entries))
	}
}

func TestAliases_FiltersWildcardsAndNegations(t *testing.T) {
	d := t.TempDir()
	cfg := strings.Join([]string{
		"Host web-? db1 !bastion *",
		"Host db1 db2 *.internal",
		"host API",
		"HOST=cache",
		"Host \"quoted alias\" db2",
		"",
	}, "\n")
	path := filepath.Join(d, "config")
	writeFile(t, path, cfg)

	got, err := Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"db1", "db2", "API", "cache", "quoted alias"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("aliases mismatch\nwant=%v\n got=%v", want, got)
	}
	for _, a := range got {
		if strings.ContainsAny(a, "*?") || strings.HasPrefix(a, "!") {
			t.Fatalf("alias %q must not be a pattern", a)
		}
	}
}

func TestResolve_OnlyStarYieldsNothing(t *testing.T) {
	d := t.TempDir()
	path := filepath.Join(d, "config")
	writeFile(t, path, "Host *\n  ServerAliveInterval 30\n")

	got, err := Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty alias set, got %v", got)
	}
}

func TestParseFile_IncludeAndMalformed(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "inc.conf"), "Host db\n  HostName 10.1.1.1\n")
	root := filepath.Join(d, "config")
	writeFile(t, root, "Host first\nInclude inc.conf\nBadLine\nHost api\n  HostName api.internal\n")

	res, err := ParseFile(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Aliases(); !reflect.DeepEqual(got, []string{"first", "db", "api"}) {
		t.Fatalf("include must be spliced in place, got %v", got)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected warning for malformed line")
	}
}

func TestParseFile_IncludeGlobLexicalOrder(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "conf.d", "20-b.conf"), "Host bravo\n")
	writeFile(t, filepath.Join(d, "conf.d", "10-a.conf"), "Host alpha\n")
	writeFile(t, filepath.Join(d, "conf.d", "30-c.conf"), "Host charlie\n")
	root := filepath.Join(d, "config")
	writeFile(t, root, "Include conf.d/*.conf\nHost zulu\n")

	got, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "bravo", "charlie", "zulu"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestParseFile_IncludeTwiceIsIdempotent(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "hosts"), "Host one two\n")

	once := filepath.Join(d, "once")
	writeFile(t, once, "Include hosts\nHost three\n")
	twice := filepath.Join(d, "twice")
	writeFile(t, twice, "Include hosts\nInclude hosts\nHost three\n")

	a, err := Resolve(once)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Resolve(twice)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("double include changed aliases: %v vs %v", a, b)
	}
}

func TestParseFile_IncludeCycle(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "a"), "Host a\nInclude b\n")
	writeFile(t, filepath.Join(d, "b"), "Host b\nInclude a\n")

	_, err := ParseFile(filepath.Join(d, "a"))
	if !errors.Is(err, ErrIncludeCycle) {
		t.Fatalf("expected include cycle error, got %v", err)
	}
	var cfgErr *Error
	if !errors.As(err, &cfgErr) || cfgErr.Kind != KindIncludeCycle {
		t.Fatalf("expected *Error of cycle kind, got %#v", err)
	}
}

func TestParseFile_SelfIncludeThroughSymlink(t *testing.T) {
	d := t.TempDir()
	root := filepath.Join(d, "config")
	writeFile(t, root, "Host a\nInclude link\n")
	if err := os.Symlink(root, filepath.Join(d, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if _, err := ParseFile(root); !errors.Is(err, ErrIncludeCycle) {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestParseFile_DanglingIncludeIsReadFailure(t *testing.T) {
	d := t.TempDir()
	if err := os.MkdirAll(filepath.Join(d, "conf.d"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(d, "gone"), filepath.Join(d, "conf.d", "x")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	root := filepath.Join(d, "config")
	writeFile(t, root, "Host a\nInclude conf.d/*\n")

	_, err := ParseFile(root)
	if !errors.Is(err, ErrReadFailure) {
		t.Fatalf("expected read failure, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("included file must not report not found: %v", err)
	}
	var cfgErr *Error
	if !errors.As(err, &cfgErr) || !strings.HasSuffix(cfgErr.Path, filepath.Join("conf.d", "x")) {
		t.Fatalf("expected error naming the include, got %#v", err)
	}
}

func TestParseFile_IncludeKeepsEnclosingHost(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "inc"), "User onlyA\nHost c\n  User onlyC\n")
	root := filepath.Join(d, "config")
	writeFile(t, root, "Host a\n  Include inc\n  Port 2200\nHost b\n  HostName b.example\n")

	res, err := ParseFile(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Aliases(); !reflect.DeepEqual(got, []string{"a", "c", "b"}) {
		t.Fatalf("unexpected aliases: %v", got)
	}
	want := []Entry{
		{Patterns: []string{"a"}},
		{Patterns: []string{"a"}, Options: []Option{{Key: "User", Value: "onlyA"}}},
		{Patterns: []string{"c"}, Options: []Option{{Key: "User", Value: "onlyC"}}},
		{Patterns: []string{"a"}, Options: []Option{{Key: "Port", Value: "2200"}}},
		{Patterns: []string{"b"}, Options: []Option{{Key: "HostName", Value: "b.example"}}},
	}
	if len(res.Entries) != len(want) {
		t.Fatalf("want %d entries, got %d: %+v", len(want), len(res.Entries), res.Entries)
	}
	for i, e := range res.Entries {
		if !reflect.DeepEqual(e.Patterns, want[i].Patterns) || !reflect.DeepEqual(e.Options, want[i].Options) {
			t.Fatalf("entry %d: want %+v, got %+v", i, want[i], e)
		}
	}
}

func TestParseFile_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".ssh", "config"), "Host homebox\n")

	res, err := ParseDefault()
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Aliases(); !reflect.DeepEqual(got, []string{"homebox"}) {
		t.Fatalf("unexpected aliases: %v", got)
	}
}

func TestParseFile_ReadFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	d := t.TempDir()
	path := filepath.Join(d, "config")
	writeFile(t, path, "Host a\n")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(path); !errors.Is(err, ErrReadFailure) {
		t.Fatalf("expected read failure, got %v", err)
	}
}

func TestParseFile_IncludeMatchingNothingWarns(t *testing.T) {
	d := t.TempDir()
	root := filepath.Join(d, "config")
	writeFile(t, root, "Include nope/*\nHost a\n")

	res, err := ParseFile(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "matched nothing") {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestParseFile_MatchBlocksYieldNoAliases(t *testing.T) {
	d := t.TempDir()
	root := filepath.Join(d, "config")
	writeFile(t, root, "Match host foo exec \"true\"\n  User x\nHost real # trailing comment\n")

	res, err := ParseFile(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Aliases(); !reflect.DeepEqual(got, []string{"real"}) {
		t.Fatalf("unexpected aliases: %v", got)
	}
	if !res.Entries[0].IsMatch() {
		t.Fatalf("expected first entry to be a Match block: %+v", res.Entries[0])
	}
}

func TestSplitDirective(t *testing.T) {
	tests := []struct {
		line     string
		key, val string
		ok       bool
	}{
		{line: "Host web", key: "Host", val: "web", ok: true},
		{line: "Host=web", key: "Host", val: "web", ok: true},
		{line: "Host = web db", key: "Host", val: "web db", ok: true},
		{line: "Port\t2222", key: "Port", val: "2222", ok: true},
		{line: "BadLine", ok: false},
		{line: "Host", ok: false},
		{line: "=web", ok: false},
	}
	for _, tt := range tests {
		key, val, ok := splitDirective(tt.line)
		if ok != tt.ok || key != tt.key || val != tt.val {
			t.Fatalf("splitDirective(%q) = %q, %q, %v", tt.line, key, val, ok)
		}
	}
}

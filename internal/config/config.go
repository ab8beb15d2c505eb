// Package config reads OpenSSH client configuration files and turns them into
// the ordered set of host aliases shf offers for selection.
package config

import (
	"strings"

	"github.com/treykane/shf/internal/util"
)

// Option is one keyword line inside a block, kept as written.
type Option struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Entry is one block of the configuration: the patterns of a Host line (or
// the criteria of a Match line) and the options declared beneath it.
// Keyword lines that appear before the first Host line of the root file form
// an entry with neither patterns nor criteria; those options apply to every
// host. Lines of an included file that precede its own first Host line, and
// lines that follow an Include, open an entry carrying the enclosing block's
// patterns or criteria.
type Entry struct {
	Patterns []string `json:"patterns,omitempty"`
	Match    string   `json:"match,omitempty"`
	Options  []Option `json:"options,omitempty"`
	Source   string   `json:"source"`
	Line     int      `json:"line"`
}

// IsMatch reports whether the entry was opened by a Match line.
func (e Entry) IsMatch() bool {
	return e.Match != ""
}

// Applies reports whether the entry's options apply to alias. Match blocks
// are never evaluated and so never apply.
func (e Entry) Applies(alias string) bool {
	if e.IsMatch() {
		return false
	}
	if len(e.Patterns) == 0 {
		return true
	}
	return matchesAny(alias, e.Patterns)
}

// Config is a fully parsed configuration with Include directives spliced in
// place, in file order.
type Config struct {
	Path     string
	Entries  []Entry
	Warnings []string
}

// Aliases returns every literal host alias in first-seen order. Patterns
// holding a wildcard, negations and empty tokens are skipped, and an alias
// declared by several blocks keeps the position of its first declaration.
func (c *Config) Aliases() []string {
	seen := map[string]struct{}{}
	var aliases []string
	for _, e := range c.Entries {
		for _, p := range e.Patterns {
			if !isConcreteAlias(p) {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			aliases = append(aliases, p)
		}
	}
	return aliases
}

// Lookup merges the options of every entry that applies to alias. As with the
// ssh client, the first value obtained for a keyword wins and later blocks
// only fill keywords that are still unset.
func (c *Config) Lookup(alias string) []Option {
	var merged []Option
	set := map[string]struct{}{}
	for _, e := range c.Entries {
		if !e.Applies(alias) {
			continue
		}
		for _, o := range e.Options {
			key := strings.ToLower(o.Key)
			if _, ok := set[key]; ok {
				continue
			}
			set[key] = struct{}{}
			merged = append(merged, o)
		}
	}
	return merged
}

// Value returns the value of keyword in opts, matched case-insensitively, or
// "" when it is absent.
func Value(opts []Option, keyword string) string {
	for _, o := range opts {
		if strings.EqualFold(o.Key, keyword) {
			return o.Value
		}
	}
	return ""
}

// Resolve parses the configuration at path and returns its alias set.
func Resolve(path string) ([]string, error) {
	cfg, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return cfg.Aliases(), nil
}

// ParseDefault parses ~/.ssh/config.
func ParseDefault() (*Config, error) {
	return ParseFile(util.DefaultSSHConfig)
}

func matchesAny(alias string, patterns []string) bool {
	matched := false
	for _, p := range patterns {
		negated := strings.HasPrefix(p, "!")
		pat := strings.TrimPrefix(p, "!")
		if !globMatch(alias, pat) {
			continue
		}
		if negated {
			return false
		}
		matched = true
	}
	return matched
}

// globMatch implements the ssh pattern language: '*' matches any run of
// characters, '?' exactly one, everything else itself. Comparison ignores case.
func globMatch(alias, pattern string) bool {
	if pattern == "" {
		return false
	}
	p := []rune(strings.ToLower(pattern))
	s := []rune(strings.ToLower(alias))
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == s[si]):
			pi++
			si++
		case pi < len(p) && p[pi] == '*':
			star = pi
			mark = si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

func isConcreteAlias(pattern string) bool {
	if strings.HasPrefix(pattern, "!") {
		return false
	}
	if strings.ContainsAny(pattern, "*?") {
		return false
	}
	return pattern != ""
}

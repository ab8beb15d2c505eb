package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treykane/shf/internal/util"
)

const maxLineBytes = 1 << 20

type parser struct {
	entries  []Entry
	warnings []string
	// active holds the canonical paths of the files currently being expanded,
	// i.e. the include stack, not every file seen so far.
	active map[string]bool
	stack  []string
}

// scope is the condition keyword lines are read under: the patterns or
// criteria of the Host or Match line in force. An Include inherits the scope
// of the line it appears in.
type scope struct {
	patterns []string
	match    string
}

func (p *parser) open(sc scope, source string, line int) int {
	p.entries = append(p.entries, Entry{Patterns: sc.patterns, Match: sc.match, Source: source, Line: line})
	return len(p.entries) - 1
}

// ParseFile parses a root SSH config and expands its Include directives.
// A leading "~" in path is expanded to the user's home directory.
func ParseFile(path string) (*Config, error) {
	expanded, err := util.ExpandHome(path)
	if err != nil {
		return nil, newError(KindNotFound, path, err)
	}
	p := &parser{active: map[string]bool{}}
	if err := p.parseRecursive(expanded, 0, scope{}); err != nil {
		return nil, err
	}
	return &Config{Path: expanded, Entries: p.entries, Warnings: p.warnings}, nil
}

func (p *parser) parseRecursive(path string, depth int, sc scope) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return newError(KindReadFailure, path, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return newError(openErrorKind(err, depth), abs, err)
	}
	if p.active[canon] {
		chain := append(append([]string(nil), p.stack...), canon)
		return newError(KindIncludeCycle, canon, errors.New(strings.Join(chain, " -> ")))
	}
	if depth > util.MaxIncludeDepth {
		return newError(KindIncludeCycle, canon, fmt.Errorf("include depth exceeded %d", util.MaxIncludeDepth))
	}

	f, err := os.Open(canon)
	if err != nil {
		return newError(openErrorKind(err, depth), canon, err)
	}
	defer f.Close()

	p.active[canon] = true
	p.stack = append(p.stack, canon)
	defer func() {
		delete(p.active, canon)
		p.stack = p.stack[:len(p.stack)-1]
	}()

	// cur indexes the entry that keyword lines of this file currently feed;
	// -1 means the next keyword line opens a new entry under sc.
	cur := -1

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = stripInlineComment(line)
		if line == "" {
			continue
		}

		key, value, ok := splitDirective(line)
		if !ok {
			p.warn("%s:%d invalid directive", canon, lineNo)
			continue
		}
		args, ok := splitArgs(value)
		if !ok {
			p.warn("%s:%d unterminated quote", canon, lineNo)
			continue
		}

		switch strings.ToLower(key) {
		case "include":
			before := len(p.entries)
			for _, pattern := range args {
				matches, ok := p.expandInclude(canon, lineNo, pattern)
				if !ok {
					continue
				}
				for _, m := range matches {
					if err := p.parseRecursive(m, depth+1, sc); err != nil {
						return err
					}
				}
			}
			if len(p.entries) != before {
				// Later lines must rank after the spliced entries.
				cur = -1
			}
		case "host":
			sc = scope{patterns: args}
			cur = p.open(sc, canon, lineNo)
		case "match":
			sc = scope{match: strings.Join(args, " ")}
			cur = p.open(sc, canon, lineNo)
		default:
			if cur < 0 {
				cur = p.open(sc, canon, lineNo)
			}
			p.entries[cur].Options = append(p.entries[cur].Options, Option{Key: key, Value: strings.Join(args, " ")})
		}
	}
	if err := scanner.Err(); err != nil {
		return newError(KindReadFailure, canon, fmt.Errorf("scan: %w", err))
	}
	return nil
}

// expandInclude resolves one Include argument to the files it names, in
// lexical order. Relative patterns are anchored at the including file's
// directory.
func (p *parser) expandInclude(from string, lineNo int, pattern string) ([]string, bool) {
	incPattern, err := util.ExpandHome(pattern)
	if err != nil {
		p.warn("%s:%d cannot expand include %q: %v", from, lineNo, pattern, err)
		return nil, false
	}
	if !filepath.IsAbs(incPattern) {
		incPattern = filepath.Join(filepath.Dir(from), incPattern)
	}
	matches, err := filepath.Glob(incPattern)
	if err != nil {
		p.warn("%s:%d bad include pattern %q", from, lineNo, pattern)
		return nil, false
	}
	if len(matches) == 0 {
		p.warn("%s:%d include matched nothing: %q", from, lineNo, pattern)
		return nil, false
	}
	sort.Strings(matches)
	files := matches[:0]
	for _, m := range matches {
		if st, err := os.Stat(m); err == nil && st.IsDir() {
			p.warn("%s:%d include skipped directory %s", from, lineNo, m)
			continue
		}
		files = append(files, m)
	}
	return files, true
}

// openErrorKind classifies a failure to resolve or open a file. Only the root
// file can be missing; an included file that vanished after globbing is a
// read failure.
func openErrorKind(err error, depth int) ErrorKind {
	if depth == 0 && errors.Is(err, fs.ErrNotExist) {
		return KindNotFound
	}
	return KindReadFailure
}

func (p *parser) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// splitDirective separates a keyword from its arguments. The keyword ends at
// the first blank or '='; a single '=' between them is allowed.
func splitDirective(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, " \t=")
	if i <= 0 {
		return "", "", false
	}
	key = line[:i]
	rest := strings.TrimLeft(line[i:], " \t")
	rest = strings.TrimPrefix(rest, "=")
	value = strings.TrimSpace(rest)
	return key, value, value != ""
}

// splitArgs splits on blanks, keeping double-quoted runs together.
func splitArgs(s string) ([]string, bool) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		inToken bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			inToken = true
		case (r == ' ' || r == '\t') && !inQuote:
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if inQuote {
		return nil, false
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, true
}

func stripInlineComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return strings.TrimSpace(line[:i])
			}
		}
	}
	return strings.TrimSpace(line)
}

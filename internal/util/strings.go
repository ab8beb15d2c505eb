package util

import "strings"

// DefaultString returns the fallback value if v is empty or consists entirely
// of whitespace; otherwise it returns v unchanged.
//
// It is the "coalesce" step wherever an optional value may be blank: choosing
// the ssh config path, normalizing app settings and filling the picker's
// preview line. EmptyDash is built on it.
//
// Examples:
//
//	DefaultString("hello", "world")  → "hello"   // non-empty → kept
//	DefaultString("",      "world")  → "world"   // empty → fallback
//	DefaultString("  ",    "world")  → "world"   // whitespace-only → fallback
//	DefaultString("  hi",  "world")  → "  hi"    // leading space but non-blank → kept
func DefaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// EmptyDash returns "-" if s is blank; otherwise it returns s unchanged.
//
// The picker preview shows a host as user@hostname:port, and a host without a
// User option would otherwise render as "@hostname:port". A visible "-" makes
// the missing field obvious.
//
// Call sites:
//   - internal/cli/root.go (describe): the user part of the preview line.
func EmptyDash(s string) string {
	return DefaultString(s, "-")
}

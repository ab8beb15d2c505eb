// Package util provides common utility functions and constants used across
// shf. This package is intentionally kept dependency-free (no imports from
// other internal/* packages) so every other package can lean on it.
package util

const (
	// MaxIncludeDepth is the maximum nesting level for SSH config Include
	// directives. Cycle detection works on canonical paths (absolute, with
	// symlinks resolved), so a file that includes itself through any chain is
	// reported as a cycle long before this bound. The bound only trips on
	// pathological but acyclic include trees, and those are reported with the
	// same include-cycle error.
	// Used by: internal/config/parser.go (parseRecursive).
	MaxIncludeDepth = 16

	// DefaultSSHConfig is the ssh client config read when neither the
	// --config flag nor the application settings name one. The leading "~"
	// is expanded by ExpandHome when the file is opened.
	//
	// Precedence, highest first:
	//   - the -c/--config flag
	//   - ssh_config in $XDG_CONFIG_HOME/shf/config.yaml
	//   - this value
	//
	// Used by: internal/cli/root.go (run), internal/appconfig/config.go
	//          (Default, normalize) and internal/config/config.go (ParseDefault).
	DefaultSSHConfig = "~/.ssh/config"

	// DefaultPrompt is shown in front of the query line of the picker. It is
	// also the fallback when config.yaml sets ui.prompt to an empty string.
	// Used by: internal/appconfig/config.go (Default, normalize) and
	//          internal/ui/ui.go (New).
	DefaultPrompt = "> "
)

// Package cli provides the command-line interface for shf.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/treykane/shf/internal/appconfig"
	"github.com/treykane/shf/internal/config"
	"github.com/treykane/shf/internal/selector"
	"github.com/treykane/shf/internal/ui"
	"github.com/treykane/shf/internal/util"
)

// newTerminal builds the picker terminal. Tests swap it for a scripted one.
var newTerminal = func(settings appconfig.UIConfig, preview func(string) string) selector.Terminal {
	opts := []ui.Option{
		ui.WithPrompt(settings.Prompt),
		ui.WithMaxRows(settings.MaxRows),
	}
	if preview != nil {
		opts = append(opts, ui.WithPreview(preview))
	}
	return ui.New(opts...)
}

type rootOptions struct {
	list       bool
	configPath string
	verbose    bool
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var opts rootOptions
	root := &cobra.Command{
		Use:   "shf",
		Short: "Fuzzy-pick a host alias from your ssh config",
		Long: "shf reads an OpenSSH client config, follows its Include directives and\n" +
			"lets you fuzzy-search the concrete Host aliases. The chosen alias is\n" +
			"printed to stdout, so it composes as: ssh $(shf)",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	root.Flags().BoolVarP(&opts.list, "list", "l", false, "print every alias, one per line, and exit")
	root.Flags().StringVarP(&opts.configPath, "config", "c", "", "ssh config file to read (default ~/.ssh/config)")
	root.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug details to stderr")
	return root
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "shf", Level: log.WarnLevel})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func run(cmd *cobra.Command, opts rootOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	settings, err := appconfig.Load()
	if err != nil {
		logger.Warn("ignoring app settings", "err", err)
	}
	path := util.DefaultString(opts.configPath, settings.SSHConfig)
	path = util.DefaultString(path, util.DefaultSSHConfig)

	cfg, err := config.ParseFile(path)
	if err != nil {
		return err
	}
	logger.Debug("parsed ssh config", "path", cfg.Path, "entries", len(cfg.Entries))
	for _, w := range cfg.Warnings {
		logger.Debug(w)
	}

	aliases := cfg.Aliases()
	if len(aliases) == 0 {
		logger.Warn("no non-wildcard hosts found", "path", cfg.Path)
		return nil
	}

	out := cmd.OutOrStdout()
	if opts.list {
		for _, a := range aliases {
			fmt.Fprintln(out, a)
		}
		return nil
	}

	var preview func(string) string
	if settings.UI.Preview {
		preview = func(alias string) string { return describe(cfg, alias) }
	}
	outcome, err := selector.Run(newTerminal(settings.UI, preview), aliases)
	if err != nil {
		return err
	}
	if !outcome.Confirmed {
		logger.Debug("selection aborted")
		return nil
	}
	fmt.Fprintln(out, outcome.Value)
	return nil
}

// describe summarizes the effective connection target of alias as
// user@hostname:port.
func describe(cfg *config.Config, alias string) string {
	opts := cfg.Lookup(alias)
	host := util.DefaultString(config.Value(opts, "HostName"), alias)
	return fmt.Sprintf("%s@%s:%s",
		util.EmptyDash(config.Value(opts, "User")),
		host,
		util.DefaultString(config.Value(opts, "Port"), "22"),
	)
}

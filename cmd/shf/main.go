// Package main is the entry point for the shf binary.
//
// shf lists the Host aliases of an OpenSSH client config and lets the user
// fuzzy-pick one. The pick is written to stdout so it composes with ssh:
//
//	ssh $(shf)             # pick interactively, then connect
//	shf --list             # print every alias, one per line
//	shf -c ./ssh_config    # read another config file
//
// The command is built in internal/cli; this file only runs it.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/treykane/shf/internal/cli"
)

var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		cli.NewRootCommand(),
		fang.WithVersion(version),
	); err != nil {
		os.Exit(1)
	}
}

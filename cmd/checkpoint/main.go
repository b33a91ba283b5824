// Package main is the entry point for the checkpoint CLI.
package main

import (
	"os"

	"github.com/thoreinstein/checkpoint/cmd/checkpoint/commands"
	"github.com/thoreinstein/checkpoint/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}

// Package main provides the entry point for the gh-mcp CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/opencode-ai/gh-mcp/cmd/gh-mcp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !errors.Is(err, commands.ErrSilent) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

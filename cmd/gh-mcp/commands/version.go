package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/gh-mcp/internal/process"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gh-mcp and gh versions",
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "gh-mcp %s (%s)\n", Version, BuildTime)

	s := settingsFrom(cmd.Context())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res := process.NewExecutor(s.Program, process.WithTimeout(10*time.Second)).Run(ctx, "--version")
	if !res.Success() {
		fmt.Fprintf(out, "%s: unavailable (%s)\n", s.Program, strings.TrimPrefix(res.Output(), "Error: "))
		return nil
	}
	first, _, _ := strings.Cut(res.Stdout, "\n")
	fmt.Fprintln(out, strings.TrimSpace(first))
	return nil
}

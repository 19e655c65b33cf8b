package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/gh-mcp/internal/ghcli"
)

var toolsVerbose bool

var toolsCmd = &cobra.Command{
	Use:   "tools [prefix]",
	Short: "List available tools",
	Long: `List every operation exposed as an MCP tool.

Examples:
  gh-mcp tools              # List all tools
  gh-mcp tools list_        # List tools starting with "list_"
  gh-mcp tools --verbose    # Show parameters`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().BoolVarP(&toolsVerbose, "verbose", "v", false, "Include parameters")
}

func runTools(cmd *cobra.Command, args []string) error {
	var prefix string
	if len(args) > 0 {
		prefix = args[0]
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tACCESS\tDESCRIPTION\t")

	for _, op := range ghcli.All() {
		if !strings.HasPrefix(op.Name, prefix) {
			continue
		}
		access := "write"
		if op.ReadOnly {
			access = "read"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", op.Name, access, op.Description)

		if toolsVerbose {
			for _, p := range op.Params {
				fmt.Fprintf(w, "  %s\t%s\t%s\t\n", paramLabel(p), p.Type, p.Description)
			}
		}
	}

	return w.Flush()
}

func paramLabel(p ghcli.Param) string {
	label := p.Name
	if p.Required {
		label += "*"
	}
	if len(p.Enum) > 0 {
		label += " (" + strings.Join(p.Enum, "|") + ")"
	}
	return label
}

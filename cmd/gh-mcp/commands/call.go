package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/ghcli"
	"github.com/opencode-ai/gh-mcp/internal/process"
)

var (
	callArgs   []string
	callJSON   string
	callDryRun bool
)

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Run a single tool",
	Long: `Run one tool and print its output, exactly as an MCP client would see it.

Examples:
  gh-mcp call get_me
  gh-mcp call list_issues --arg owner=cli --arg repo=cli --arg state=closed
  gh-mcp call create_branch --json '{"owner":"o","repo":"r","branch_name":"fix"}' --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringArrayVarP(&callArgs, "arg", "a", nil, "Tool argument as key=value (repeatable)")
	callCmd.Flags().StringVar(&callJSON, "json", "", "Tool arguments as a JSON object")
	callCmd.Flags().BoolVar(&callDryRun, "dry-run", false, "Print the gh command lines instead of running them")
}

func runCall(cmd *cobra.Command, args []string) error {
	name := args[0]
	op, ok := ghcli.Lookup(name)
	if !ok {
		return &catalog.UnknownOperationError{Name: name, Suggestion: catalog.Suggest(name)}
	}

	toolArgs, err := parseCallArgs(op, callJSON, callArgs)
	if err != nil {
		return err
	}

	if callDryRun {
		return dryRun(cmd, op, toolArgs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := newCatalog(settingsFrom(cmd.Context()), nil).Execute(ctx, op.Name, toolArgs)
	if err != nil {
		return err
	}
	if !res.Success() {
		color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), res.Output())
		return ErrSilent
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Output())
	return nil
}

// parseCallArgs merges a JSON object with key=value pairs. Pair values are
// converted according to the declared parameter type.
func parseCallArgs(op *ghcli.Operation, rawJSON string, pairs []string) (ghcli.Args, error) {
	out := ghcli.Args{}
	if strings.TrimSpace(rawJSON) != "" {
		dec := json.NewDecoder(strings.NewReader(rawJSON))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("invalid --json: %w", err)
		}
	}

	types := make(map[string]ghcli.ParamType, len(op.Params))
	for _, p := range op.Params {
		types[p.Name] = p.Type
	}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --arg %q (expected key=value)", pair)
		}
		typ, known := types[key]
		if !known {
			return nil, fmt.Errorf("tool %s has no parameter %q", op.Name, key)
		}

		switch typ {
		case ghcli.TypeInteger:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("parameter %s must be an integer: %q", key, value)
			}
			out[key] = n
		case ghcli.TypeBoolean:
			b, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("parameter %s must be a boolean: %q", key, value)
			}
			out[key] = b
		default:
			out[key] = value
		}
	}
	return out, nil
}

func dryRun(cmd *cobra.Command, op *ghcli.Operation, args ghcli.Args) error {
	if err := op.Validate(args); err != nil {
		return err
	}
	s := settingsFrom(cmd.Context())
	var prev string
	for i, step := range op.Steps {
		fmt.Fprintln(cmd.OutOrStdout(), process.CommandLine(s.Program, step(args, s, prev)))
		prev = fmt.Sprintf("<output of step %d>", i+1)
	}
	return nil
}

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/config"
	"github.com/opencode-ai/gh-mcp/internal/ghcli"
)

// execute runs the root command in a clean environment and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{config.EnvConfig, config.EnvProgram, config.EnvTimeout, config.EnvCommitLimit, config.EnvSearchLimit, config.EnvListLimit} {
		t.Setenv(key, "")
	}
	t.Setenv(config.EnvDefaultBranch, "trunk")

	callArgs, callJSON, callDryRun, toolsVerbose = nil, "", false, false
	program, timeout, configPath, workDir = "", 0, "", t.TempDir()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--print-logs", "--log-level", "ERROR"}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestParseCallArgs(t *testing.T) {
	op, ok := ghcli.Lookup("list_workflow_runs")
	require.True(t, ok)

	t.Run("pairs are typed by parameter", func(t *testing.T) {
		got, err := parseCallArgs(op, "", []string{"owner=cli", "repo=cli", "limit=5", "status=failure"})
		require.NoError(t, err)
		assert.Equal(t, ghcli.Args{"owner": "cli", "repo": "cli", "limit": 5, "status": "failure"}, got)
	})

	t.Run("values keep embedded equals signs", func(t *testing.T) {
		got, err := parseCallArgs(op, "", []string{"workflow=a=b"})
		require.NoError(t, err)
		assert.Equal(t, "a=b", got["workflow"])
	})

	t.Run("pairs override json", func(t *testing.T) {
		got, err := parseCallArgs(op, `{"owner":"a","repo":"b","limit":3}`, []string{"owner=c"})
		require.NoError(t, err)
		assert.Equal(t, "c", got["owner"])
		assert.Equal(t, json.Number("3"), got["limit"])
		assert.Equal(t, 3, got.Int("limit"))
	})

	t.Run("errors", func(t *testing.T) {
		for _, tt := range []struct {
			name  string
			json  string
			pairs []string
		}{
			{"missing equals", "", []string{"owner"}},
			{"unknown parameter", "", []string{"color=red"}},
			{"bad integer", "", []string{"limit=ten"}},
			{"bad json", "{", nil},
		} {
			t.Run(tt.name, func(t *testing.T) {
				_, err := parseCallArgs(op, tt.json, tt.pairs)
				assert.Error(t, err)
			})
		}
	})

	t.Run("booleans", func(t *testing.T) {
		merge, ok := ghcli.Lookup("merge_pull_request")
		require.True(t, ok)

		got, err := parseCallArgs(merge, "", []string{"delete_branch=true"})
		require.NoError(t, err)
		assert.Equal(t, true, got["delete_branch"])

		_, err = parseCallArgs(merge, "", []string{"delete_branch=maybe"})
		assert.Error(t, err)
	})
}

func TestToolsCommand(t *testing.T) {
	out, err := execute(t, "tools", "create_")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "TOOL"))
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "create_"), line)
		assert.Contains(t, line, "write")
	}
	assert.Contains(t, out, "create_branch")
	assert.NotContains(t, out, "list_issues")
}

func TestToolsCommand_Verbose(t *testing.T) {
	out, err := execute(t, "tools", "get_file_contents", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "read")
	assert.Contains(t, out, "path*")
	assert.Contains(t, out, "owner*")
}

func TestCallCommand_DryRun(t *testing.T) {
	out, err := execute(t, "call", "create_branch",
		"--json", `{"owner":"o","repo":"r","branch_name":"fix"}`,
		"--program", "gh",
		"--dry-run",
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "gh api repos/o/r/git/ref/heads/trunk --jq "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "gh api repos/o/r/git/refs --method POST --field "), lines[1])
	assert.Contains(t, lines[1], "refs/heads/fix")
	assert.Contains(t, lines[1], "output of step 1")
}

func TestCallCommand_ConfigFlagFeedsSettings(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gh-mcp.yaml")
	require.NoError(t, os.WriteFile(file, []byte("program: gh-from-config\n"), 0o644))

	out, err := execute(t, "--config", file, "call", "list_branches",
		"--json", `{"owner":"o","repo":"r"}`,
		"--dry-run",
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "gh-from-config "), out)
	assert.Empty(t, os.Getenv(config.EnvConfig))

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "tools")
	assert.Error(t, err)
}

func TestCallCommand_DryRunRejectsUnsafeIdentifier(t *testing.T) {
	_, err := execute(t, "call", "list_branches",
		"--json", `{"owner":"o","repo":"r;rm"}`,
		"--dry-run",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid characters")
}

func TestCallCommand_UnknownTool(t *testing.T) {
	_, err := execute(t, "call", "list_issue")
	require.Error(t, err)

	var unknown *catalog.UnknownOperationError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "list_issues", unknown.Suggestion)
}

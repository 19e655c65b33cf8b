package github

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/config"
	"github.com/opencode-ai/gh-mcp/internal/ghcli"
	"github.com/opencode-ai/gh-mcp/internal/process"
)

type fakeRunner struct {
	calls [][]string
	res   process.Result
}

func (f *fakeRunner) Run(_ context.Context, args ...string) process.Result {
	f.calls = append(f.calls, args)
	return f.res
}

func call(t *testing.T, runner *fakeRunner, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := NewServer(catalog.New(config.Settings{}, runner), "test")

	tool := s.GetTool(name)
	require.NotNil(t, tool, "%s tool should exist", name)

	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := tool.Handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content should be text")
	return textContent.Text
}

func TestServer_HasEveryOperation(t *testing.T) {
	s := NewServer(catalog.New(config.Settings{}, &fakeRunner{}), "test")

	for _, name := range ghcli.Names() {
		tool := s.GetTool(name)
		require.NotNil(t, tool, name)
		assert.Equal(t, name, tool.Tool.Name)
		assert.NotEmpty(t, tool.Tool.Description)
	}
}

func TestNewTool_Schema(t *testing.T) {
	op, ok := ghcli.Lookup("merge_pull_request")
	require.True(t, ok)

	tool := NewTool(op)

	assert.ElementsMatch(t, []string{"owner", "repo", "pr_number"}, tool.InputSchema.Required)
	assert.Equal(t, "number", tool.InputSchema.Properties["pr_number"].(map[string]any)["type"])
	assert.Equal(t, "boolean", tool.InputSchema.Properties["delete_branch"].(map[string]any)["type"])

	method := tool.InputSchema.Properties["merge_method"].(map[string]any)
	assert.Equal(t, "string", method["type"])
	assert.Equal(t, []string{"merge", "squash", "rebase"}, method["enum"])
}

func TestNewTool_ReadOnlyHint(t *testing.T) {
	op, _ := ghcli.Lookup("list_issues")
	tool := NewTool(op)
	require.NotNil(t, tool.Annotations.ReadOnlyHint)
	assert.True(t, *tool.Annotations.ReadOnlyHint)
}

func TestHandler_Success(t *testing.T) {
	runner := &fakeRunner{res: process.Result{Stdout: "diff --git a/x b/x"}}

	result := call(t, runner, "get_pull_request_diff", map[string]any{"owner": "o", "repo": "r", "pr_number": float64(4)})

	assert.False(t, result.IsError)
	assert.Equal(t, "diff --git a/x b/x", text(t, result))
	assert.Equal(t, [][]string{{"pr", "diff", "4", "--repo", "o/r"}}, runner.calls)
}

func TestHandler_CommandFailure(t *testing.T) {
	runner := &fakeRunner{res: process.Result{
		Stderr:   "Command timed out after 30s",
		ExitCode: process.ExitFailed,
		Err:      &process.Error{Kind: process.KindTimeout, ExitCode: process.ExitFailed},
	}}

	result := call(t, runner, "get_me", nil)

	assert.True(t, result.IsError)
	assert.Equal(t, "Error: Command timed out after 30s", text(t, result))
}

func TestHandler_ValidationFailure(t *testing.T) {
	runner := &fakeRunner{}

	result := call(t, runner, "create_issue", map[string]any{"owner": "o", "repo": "r"})

	assert.True(t, result.IsError)
	assert.Equal(t, "Error: Parameter 'title' is required", text(t, result))
	assert.Empty(t, runner.calls)
}

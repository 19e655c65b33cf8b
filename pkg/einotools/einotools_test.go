package einotools

import (
	"context"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/config"
	"github.com/opencode-ai/gh-mcp/internal/ghcli"
	"github.com/opencode-ai/gh-mcp/internal/process"
)

type stubRunner struct {
	mu    sync.Mutex
	calls [][]string
	res   process.Result
}

func (r *stubRunner) Run(_ context.Context, args ...string) process.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
	return r.res
}

func TestFromCatalog(t *testing.T) {
	runner := &stubRunner{res: process.Result{Stdout: `{"login":"octocat"}`}}
	c := catalog.New(config.Settings{}, runner)

	tools := FromCatalog(c)
	assert.Len(t, tools, len(ghcli.Names()))

	tool, found := Find(c, "get_me")
	require.True(t, found)

	info, err := tool.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "get_me", info.Name)

	out, err := tool.InvokableRun(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, `{"login":"octocat"}`, out)
	assert.Equal(t, [][]string{{"api", "user"}}, runner.calls)
}

func TestTool_ParamsAndErrors(t *testing.T) {
	runner := &stubRunner{}
	c := catalog.New(config.Settings{}, runner)

	tool, found := Find(c, "merge_pull_request")
	require.True(t, found)

	op, ok := ghcli.Lookup("merge_pull_request")
	require.True(t, ok)
	p := params(op.Params)
	require.Contains(t, p, "pr_number")
	assert.Equal(t, schema.Integer, p["pr_number"].Type)
	assert.True(t, p["pr_number"].Required)
	assert.Equal(t, []string{"merge", "squash", "rebase"}, p["merge_method"].Enum)
	assert.Equal(t, schema.Boolean, p["delete_branch"].Type)

	out, err := tool.InvokableRun(context.Background(), `{"owner":"o","repo":"r"}`)
	require.NoError(t, err)
	assert.Equal(t, "Error: Parameter 'pr_number' is required", out)
	assert.Empty(t, runner.calls)

	_, err = tool.InvokableRun(context.Background(), `{not json`)
	assert.Error(t, err)

	_, found = Find(c, "nope")
	assert.False(t, found)
}

func TestNew_RunsConfiguredProgram(t *testing.T) {
	tools := New(Config{Program: "/nonexistent/gh-mcp-test/gh"})
	require.Len(t, tools, len(ghcli.Names()))

	var getMe *einoTool
	for _, tool := range tools {
		if et := tool.(*einoTool); et.op.Name == "get_me" {
			getMe = et
		}
	}
	require.NotNil(t, getMe)
	assert.Equal(t, "/nonexistent/gh-mcp-test/gh", getMe.catalog.Settings().Program)

	out, err := getMe.InvokableRun(context.Background(), "{}")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Failed to execute command - ")
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvProgram, "/opt/gh/bin/gh")

	tools, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NotEmpty(t, tools)
	assert.Equal(t, "/opt/gh/bin/gh", tools[0].(*einoTool).catalog.Settings().Program)
}

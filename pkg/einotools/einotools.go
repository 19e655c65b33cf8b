// Package einotools exposes every gh operation as an Eino tool, for agents
// that run the operations in-process instead of through an MCP client.
package einotools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/spf13/afero"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/config"
	"github.com/opencode-ai/gh-mcp/internal/ghcli"
)

// Config describes the gh program the tools run. Zero fields fall back to
// the same defaults as the server.
type Config struct {
	Program       string
	DefaultBranch string
	Timeout       time.Duration
	CommitLimit   int
	SearchLimit   int
	ListLimit     int
}

func (c Config) settings() config.Settings {
	return config.Settings{
		Program:       c.Program,
		DefaultBranch: c.DefaultBranch,
		Timeout:       c.Timeout,
		CommitLimit:   c.CommitLimit,
		SearchLimit:   c.SearchLimit,
		ListLimit:     c.ListLimit,
	}
}

// New returns one tool per operation, backed by a process executor.
func New(cfg Config) []einotool.InvokableTool {
	return FromCatalog(catalog.NewDefault(cfg.settings()))
}

// Load resolves settings the way the gh-mcp binary does (config files under
// dir, then GH_MCP_* variables) and returns the tools.
func Load(dir string) ([]einotool.InvokableTool, error) {
	s, err := config.Load(afero.NewOsFs(), dir, "")
	if err != nil {
		return nil, err
	}
	return FromCatalog(catalog.NewDefault(s)), nil
}

// FromCatalog wraps every operation of c.
func FromCatalog(c *catalog.Catalog) []einotool.InvokableTool {
	ops := c.Operations()
	tools := make([]einotool.InvokableTool, len(ops))
	for i, op := range ops {
		tools[i] = &einoTool{catalog: c, op: op}
	}
	return tools
}

// Find returns the tool for a single operation of c.
func Find(c *catalog.Catalog, name string) (einotool.InvokableTool, bool) {
	op, ok := ghcli.Lookup(name)
	if !ok {
		return nil, false
	}
	return &einoTool{catalog: c, op: op}, true
}

// einoTool wraps an operation to implement Eino's InvokableTool interface.
type einoTool struct {
	catalog *catalog.Catalog
	op      *ghcli.Operation
}

// Info returns the tool information.
func (t *einoTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name:        t.op.Name,
		Desc:        t.op.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(params(t.op.Params)),
	}, nil
}

// InvokableRun executes the operation. Operation failures are returned as
// "Error: ..." text for the model to read; only undecodable input is an error.
func (t *einoTool) InvokableRun(ctx context.Context, argsJSON string, opts ...einotool.Option) (string, error) {
	args := ghcli.Args{}
	if strings.TrimSpace(argsJSON) != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return "", fmt.Errorf("decode %s arguments: %w", t.op.Name, err)
		}
	}
	return t.catalog.Invoke(ctx, t.op.Name, args), nil
}

func params(list []ghcli.Param) map[string]*schema.ParameterInfo {
	out := make(map[string]*schema.ParameterInfo, len(list))
	for _, p := range list {
		paramType := schema.String
		switch p.Type {
		case ghcli.TypeInteger:
			paramType = schema.Integer
		case ghcli.TypeBoolean:
			paramType = schema.Boolean
		}
		out[p.Name] = &schema.ParameterInfo{
			Type:     paramType,
			Desc:     p.Description,
			Enum:     p.Enum,
			Required: p.Required,
		}
	}
	return out
}

// Package github provides an MCP server exposing every gh operation as a tool.
package github

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/ghcli"
)

// Name is the server name reported during MCP initialization.
const Name = "gh-mcp"

// NewServer creates an MCP server with one tool per catalog operation.
func NewServer(c *catalog.Catalog, version string) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	for _, op := range c.Operations() {
		s.AddTool(NewTool(op), handler(c, op))
	}

	return s
}

// NewTool builds the MCP tool definition for an operation.
func NewTool(op *ghcli.Operation) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(op.Description)}
	if op.ReadOnly {
		opts = append(opts,
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
		)
	}
	for _, p := range op.Params {
		opts = append(opts, property(p))
	}
	return mcp.NewTool(op.Name, opts...)
}

func property(p ghcli.Param) mcp.ToolOption {
	props := []mcp.PropertyOption{mcp.Description(p.Description)}
	if p.Required {
		props = append(props, mcp.Required())
	}

	switch p.Type {
	case ghcli.TypeInteger:
		return mcp.WithNumber(p.Name, props...)
	case ghcli.TypeBoolean:
		return mcp.WithBoolean(p.Name, props...)
	default:
		if len(p.Enum) > 0 {
			props = append(props, mcp.Enum(p.Enum...))
		}
		return mcp.WithString(p.Name, props...)
	}
}

// handler runs the operation. Failures are tool errors carrying the
// "Error: ..." text, never protocol errors.
func handler(c *catalog.Catalog, op *ghcli.Operation) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := c.Execute(ctx, op.Name, ghcli.Args(request.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		if !res.Success() {
			return mcp.NewToolResultError(res.Output()), nil
		}
		return mcp.NewToolResultText(res.Output()), nil
	}
}

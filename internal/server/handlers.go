package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/ghcli"
	"github.com/opencode-ai/gh-mcp/internal/validate"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Program string `json:"program"`
	Tools   int    `json:"tools"`
}

// ToolInfo describes one operation in GET /tools.
type ToolInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ReadOnly    bool        `json:"readOnly"`
	Params      []ParamInfo `json:"params"`
}

// ParamInfo describes one operation parameter.
type ParamInfo struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
}

// CallResponse is returned by POST /tools/{name} once the command has run.
type CallResponse struct {
	Output   string `json:"output"`
	Success  bool   `json:"success"`
	ExitCode int    `json:"exitCode"`
	Kind     string `json:"kind,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Program: s.catalog.Settings().Program,
		Tools:   len(s.catalog.Operations()),
	})
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	ops := s.catalog.Operations()
	tools := make([]ToolInfo, 0, len(ops))
	for _, op := range ops {
		info := ToolInfo{
			Name:        op.Name,
			Description: op.Description,
			ReadOnly:    op.ReadOnly,
			Params:      make([]ParamInfo, 0, len(op.Params)),
		}
		for _, p := range op.Params {
			info.Params = append(info.Params, ParamInfo{
				Name:        p.Name,
				Type:        string(p.Type),
				Description: p.Description,
				Required:    p.Required,
				Enum:        p.Enum,
			})
		}
		tools = append(tools, info)
	}
	writeJSON(w, http.StatusOK, tools)
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args := ghcli.Args{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body: "+err.Error())
		return
	}

	res, err := s.catalog.Execute(r.Context(), name, args)

	var unknown *catalog.UnknownOperationError
	var invalid *validate.Error
	switch {
	case errors.As(err, &unknown):
		var details map[string]any
		if unknown.Suggestion != "" {
			details = map[string]any{"suggestion": unknown.Suggestion}
		}
		writeErrorWithDetails(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), details)
		return
	case errors.As(err, &invalid):
		writeErrorWithDetails(w, http.StatusBadRequest, ErrCodeInvalidRequest, invalid.Message, map[string]any{
			"field": invalid.Field,
			"kind":  string(invalid.Kind),
		})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CallResponse{
		Output:   res.Output(),
		Success:  res.Success(),
		ExitCode: res.ExitCode,
		Kind:     string(res.Kind()),
	})
}

package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/tenure"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *directory.Store
	cfg   *config.Config
	clock tenure.Clock
}

// NewHandlers creates a new Handlers instance. A nil clock reads the system time.
func NewHandlers(store *directory.Store, cfg *config.Config, clock tenure.Clock) *Handlers {
	return &Handlers{store: store, cfg: cfg, clock: tenure.OrSystem(clock)}
}

// SearchRequest represents the arguments for employee_search.
type SearchRequest struct {
	Query string `json:"query,omitempty"`
}

// GetRequest represents the arguments for employee_get.
type GetRequest struct {
	ID int `json:"id"`
}

// StatsRequest represents the arguments for employee_stats.
type StatsRequest struct {
	Query string `json:"query,omitempty"`
}

// HandleSearch handles the employee_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result := ops.List(h.store, ops.ListInput{
		Query: input.Query,
		AsOf:  h.clock.Now(),
	})
	return successResult(result)
}

// HandleGet handles the employee_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.store, ops.FetchInput{
		ID:   input.ID,
		Org:  h.cfg.OrgName,
		AsOf: h.clock.Now(),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the employee_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StatsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result := ops.GetStats(h.store, ops.StatsInput{
		Query: input.Query,
		AsOf:  h.clock.Now(),
	})
	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var rErr *errors.RosterError
	if stderrors.As(err, &rErr) {
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": rErr.Message,
			"status":  rErr.Status,
		}
		// Internal errors may carry file paths; only client errors include details.
		if rErr.Code != errors.ErrInternal && rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

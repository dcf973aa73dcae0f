package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetWorkoutSets = mcp.NewTool("get_workout_sets",
	mcp.WithDescription("List all workout sets with their exercises and set entries, plus which set is currently selected."),
)

var toolGetWorkoutSet = mcp.NewTool("get_workout_set",
	mcp.WithDescription("Fetch a single workout set by id, including exercises, set entries, and completion flags."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout set UUID")),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Current live-session state: whether a workout is active, which set, and the elapsed time."),
)

var toolGetLastSummary = mcp.NewTool("get_last_summary",
	mcp.WithDescription("The summary of the most recently finished workout, if one is awaiting dismissal. Includes duration, totals, and per-exercise lines."),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{
		"selected_id":  h.store.SelectedID(),
		"workout_sets": h.store.Sets(),
	})
	if err != nil {
		h.log.Error("mcp get_workout_sets", "error", err)
		return mcp.NewToolResultError("encoding failed: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid workout set id"), nil
	}

	ws, ok := h.store.Get(id)
	if !ok {
		return mcp.NewToolResultError("workout set not found"), nil
	}
	result, err := mcp.NewToolResultJSON(ws)
	if err != nil {
		h.log.Error("mcp get_workout_set", "error", err)
		return mcp.NewToolResultError("encoding failed: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.controller.Status())
	if err != nil {
		h.log.Error("mcp get_session", "error", err)
		return mcp.NewToolResultError("encoding failed: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getLastSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sum, ok := h.controller.LastSummary()
	if !ok {
		return mcp.NewToolResultText("no finished workout to summarize"), nil
	}
	result, err := mcp.NewToolResultJSON(sum)
	if err != nil {
		h.log.Error("mcp get_last_summary", "error", err)
		return mcp.NewToolResultError("encoding failed: " + err.Error()), nil
	}
	return result, nil
}

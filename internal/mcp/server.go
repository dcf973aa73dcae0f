// Package mcp exposes the live workout state over the Model Context
// Protocol so agents can inspect routines, the running session, and the
// latest summary. All tools are read-only; edits stay behind the HTTP API.
package mcp

import (
	"log/slog"

	"github.com/claude/liftlog/internal/routine"
	"github.com/claude/liftlog/internal/session"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools registered.
func New(store *routine.Store, controller *session.Controller, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("LiftLog workout tracker. Inspect workout routines, the live session state, and the latest end-of-session summary. Data is in-memory and reflects the running server."),
	)

	h := &handlers{store: store, controller: controller, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutSets, Handler: h.getWorkoutSets},
		server.ServerTool{Tool: toolGetWorkoutSet, Handler: h.getWorkoutSet},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolGetLastSummary, Handler: h.getLastSummary},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	store      *routine.Store
	controller *session.Controller
	log        *slog.Logger
}

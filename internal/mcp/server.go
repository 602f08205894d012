// Package mcp exposes the site content to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/contentfile"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes content tools.
type Server struct {
	store   *contentfile.Store
	links   map[string]string
	history *audit.Store
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. links is the link-repair table used by
// check_links; history may be nil.
func NewServer(store *contentfile.Store, links map[string]string, history *audit.Store) *Server {
	s := &Server{
		store:   store,
		links:   links,
		history: history,
	}

	s.mcp = server.NewMCPServer(
		"sitekit",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listEventsTool, s.handleListEvents)
	s.mcp.AddTool(getArticleTool, s.handleGetArticle)
	s.mcp.AddTool(backupContentTool, s.handleBackupContent)
	s.mcp.AddTool(checkLinksTool, s.handleCheckLinks)
	if s.history != nil {
		s.mcp.AddTool(getHistoryTool, s.handleGetHistory)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

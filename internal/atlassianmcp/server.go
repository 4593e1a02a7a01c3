package atlassianmcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/Zhuoli/leverage-agent/pkg/logger"
)

const (
	ServerName    = "atlassian-mcp-server"
	ServerVersion = "0.1.0"
)

// Server bundles the tool catalog with the MCP stdio transport. Exactly one
// client drives it over one stdio pair; requests are handled one at a time.
type Server struct {
	catalog *Catalog
	mcp     *server.MCPServer
}

// NewServer builds the catalog from the two clients and registers every tool
// on the underlying MCP server. The catalog is immutable afterwards.
func NewServer(jira JiraService, confluence ConfluenceService) *Server {
	catalog := NewCatalog()
	registerJiraTools(catalog, jira)
	registerConfluenceTools(catalog, confluence)

	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	for _, tool := range catalog.Tools() {
		handler, _ := catalog.Resolve(tool.Name)
		s.AddTool(tool, server.ToolHandlerFunc(handler))
	}

	logger.Info("[MCP] server initialized with %d tools", catalog.Len())

	return &Server{catalog: catalog, mcp: s}
}

// Catalog exposes the registered tool set.
func (s *Server) Catalog() *Catalog {
	return s.catalog
}

// Serve runs the stdio transport until the input stream closes. Logging goes
// to stderr; stdout carries only protocol frames.
func (s *Server) Serve() error {
	logger.Info("[MCP] serving on stdio transport")
	return server.ServeStdio(s.mcp)
}

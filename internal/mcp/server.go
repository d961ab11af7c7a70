// ABOUTME: MCP server setup for the vitals record store.
// ABOUTME: Wraps the MCP server around an in-memory session and CSV storage.
package mcp

import (
	"context"

	"github.com/harperreed/vitals/internal/medication"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with a live session. Records and
// medicines load once at startup; tools mutate the in-memory session
// and save_records persists it back through storage.
type Server struct {
	mcpServer *mcp.Server
	store     *vitals.Store
	cabinet   *medication.Cabinet
	files     *storage.CSV
}

// NewServer creates a new MCP server over the given session.
func NewServer(store *vitals.Store, cabinet *medication.Cabinet, files *storage.CSV) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vitals",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     store,
		cabinet:   cabinet,
		files:     files,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

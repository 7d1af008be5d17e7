// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with vehicle log tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/carlog/internal/logging"
	"github.com/harper/carlog/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with the vehicle log store.
type Server struct {
	mcp    *mcp.Server
	store  *store.Store
	logger logging.Logger
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock overrides the time source used for dates and status.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates MCP server with all capabilities.
func NewServer(st *store.Store, opts ...Option) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "carlog",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		store:  st,
		logger: logging.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

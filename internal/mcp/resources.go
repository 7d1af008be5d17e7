// ABOUTME: MCP resource definitions
// ABOUTME: Provides the read-only dashboard view for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/carlog/internal/stats"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DashboardURI addresses the dashboard resource.
const DashboardURI = "carlog://dashboard"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        DashboardURI,
		Description: "Vehicle overview: costs, fuel consumption, active reminders, open problems and expiring inventory",
		URI:         DashboardURI,
		MIMEType:    "application/json",
	}, s.handleDashboardResource)
}

func (s *Server) handleDashboardResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap := s.store.Snapshot()
	dashboard := stats.BuildDashboard(snap.Data, s.now())

	jsonBytes, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode dashboard: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      DashboardURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}

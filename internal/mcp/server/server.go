// Package server implements the MCP server that exposes terrain-analysis
// operations as tools for AI agents. Each tool validates nothing beyond
// the MCP schema; algorithm parameters pass through to the geoprocessing
// connector verbatim.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/terrainlab/terrain-mcp/internal/geoproc"
)

// Server wraps the MCP server and the geoprocessing connector.
type Server struct {
	mcpServer *server.MCPServer
	connector *geoproc.Connector
	limiter   *callLimiter
	name      string
	version   string
	logger    *slog.Logger
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Name is the server name (default: "terrain-mcp").
	Name string

	// Version is the terrain-mcp version.
	Version string

	// Connector is the geoprocessing connector (required).
	Connector *geoproc.Connector

	// Logger receives server logs. Defaults to slog.Default(), which must
	// not write to stdout in stdio mode.
	Logger *slog.Logger

	// CallsPerMinute limits tool calls across all tools (default: 60).
	CallsPerMinute int
}

// NewServer creates a new MCP server instance.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Connector == nil {
		return nil, fmt.Errorf("connector is required")
	}
	if config.Name == "" {
		config.Name = "terrain-mcp"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.CallsPerMinute == 0 {
		config.CallsPerMinute = 60
	}

	s := &Server{
		mcpServer: server.NewMCPServer(config.Name, config.Version),
		connector: config.Connector,
		limiter:   newCallLimiter(config.CallsPerMinute),
		name:      config.Name,
		version:   config.Version,
		logger:    config.Logger,
	}

	s.registerTools()
	return s, nil
}

// registerTools registers every terrain tool with the MCP server.
func (s *Server) registerTools() {
	for _, def := range algorithmToolDefs {
		s.mcpServer.AddTool(mcp.Tool{
			Name:        def.name,
			Description: def.description,
			InputSchema: def.schema,
		}, s.algorithmHandler(def))
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "terrain_run_algorithm",
		Description: "Run an arbitrary geoprocessing algorithm by its provider identifier (e.g. native:slope). Use terrain_list_algorithms to discover identifiers and parameters.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"algorithm": map[string]interface{}{
					"type":        "string",
					"description": "The algorithm identifier",
				},
				"parameters": map[string]interface{}{
					"type":        "object",
					"description": "Algorithm-specific parameters. File paths must be absolute.",
				},
			},
			Required: []string{"algorithm"},
		},
	}, s.handleRunAlgorithm)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "terrain_service_health",
		Description: "Check whether the remote geoprocessing service is reachable and ready.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleServiceHealth)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "terrain_list_algorithms",
		Description: "List the algorithms advertised by the remote geoprocessing service.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListAlgorithms)
}

// Run serves MCP over stdio until the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting terrain MCP server",
		slog.String("version", s.version),
		slog.String("service_url", s.connector.Config().BaseURL))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down terrain MCP server")
	// The mcp-go stdio server stops when ServeStdio returns.
	return nil
}

func errorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

func textResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/terrainlab/terrain-mcp/internal/geoproc"
)

// rateLimitMessage is returned for calls rejected by the rate limiter.
const rateLimitMessage = "Rate limit exceeded. Please try again later."

// algorithmToolDef binds one terrain tool to its connector dispatcher.
// All algorithm tools share one handler; only the schema and the
// dispatcher differ.
type algorithmToolDef struct {
	name        string
	description string
	schema      mcp.ToolInputSchema
	dispatch    func(c *geoproc.Connector, ctx context.Context, params geoproc.Params) (*geoproc.Envelope, error)
}

// demSchema builds the input schema shared by raster terrain tools:
// a required absolute DEM path, an optional output path, and
// tool-specific extra properties.
func demSchema(extra map[string]interface{}) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"dem_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the input digital elevation model (GeoTIFF)",
		},
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path for the output raster; the service picks a temporary path when omitted",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   []string{"dem_path"},
	}
}

var algorithmToolDefs = []algorithmToolDef{
	{
		name:        "terrain_slope",
		description: "Compute slope (degrees) from a digital elevation model.",
		schema: demSchema(map[string]interface{}{
			"z_factor": map[string]interface{}{
				"type":        "number",
				"description": "Vertical exaggeration factor (default 1.0)",
			},
		}),
		dispatch: (*geoproc.Connector).RunSlope,
	},
	{
		name:        "terrain_aspect",
		description: "Compute aspect (downslope direction, degrees from north) from a digital elevation model.",
		schema:      demSchema(nil),
		dispatch:    (*geoproc.Connector).RunAspect,
	},
	{
		name:        "terrain_hillshade",
		description: "Render a hillshade raster from a digital elevation model.",
		schema: demSchema(map[string]interface{}{
			"azimuth": map[string]interface{}{
				"type":        "number",
				"description": "Light azimuth in degrees (default 315)",
			},
			"altitude": map[string]interface{}{
				"type":        "number",
				"description": "Light altitude in degrees (default 45)",
			},
		}),
		dispatch: (*geoproc.Connector).RunHillshade,
	},
	{
		name:        "terrain_watershed",
		description: "Delineate watershed basins from a digital elevation model.",
		schema: demSchema(map[string]interface{}{
			"pour_points": map[string]interface{}{
				"type":        "array",
				"description": "Outlet coordinates as [x, y] pairs; basins are computed for the whole extent when omitted",
			},
		}),
		dispatch: (*geoproc.Connector).RunWatershed,
	},
	{
		name:        "terrain_viewshed",
		description: "Compute visible area from observer points over a digital elevation model.",
		schema: demSchema(map[string]interface{}{
			"observer_points": map[string]interface{}{
				"type":        "array",
				"description": "Observer coordinates as [x, y] pairs",
			},
			"observer_height": map[string]interface{}{
				"type":        "number",
				"description": "Observer height above ground in meters (default 1.8)",
			},
		}),
		dispatch: (*geoproc.Connector).RunViewshed,
	},
	{
		name:        "terrain_solar_radiation",
		description: "Model incoming solar radiation over terrain for a given day of year.",
		schema: demSchema(map[string]interface{}{
			"day_of_year": map[string]interface{}{
				"type":        "integer",
				"description": "Day of year (1-365) to model",
			},
			"latitude": map[string]interface{}{
				"type":        "number",
				"description": "Site latitude in decimal degrees",
			},
		}),
		dispatch: (*geoproc.Connector).RunSolarRadiation,
	},
	{
		name:        "terrain_habitat_connectivity",
		description: "Score habitat connectivity between patches using a resistance surface.",
		schema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"patches_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the habitat patches vector layer",
				},
				"resistance_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the resistance surface raster",
				},
				"output_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path for the connectivity output",
				},
			},
			Required: []string{"patches_path", "resistance_path"},
		},
		dispatch: (*geoproc.Connector).RunHabitatConnectivity,
	},
}

// algorithmHandler builds the shared handler for one algorithm tool.
func (s *Server) algorithmHandler(def algorithmToolDef) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !s.limiter.AllowCall() {
			return errorResponse(rateLimitMessage), nil
		}

		params := geoproc.Params(request.GetArguments())
		env, err := def.dispatch(s.connector, ctx, params)
		if err != nil {
			return errorResponse(err.Error()), nil
		}
		return envelopeResponse(env)
	}
}

// handleRunAlgorithm implements the terrain_run_algorithm tool.
func (s *Server) handleRunAlgorithm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.limiter.AllowCall() {
		return errorResponse(rateLimitMessage), nil
	}

	args := request.GetArguments()
	algorithm, _ := args["algorithm"].(string)
	if algorithm == "" {
		return errorResponse("algorithm is required"), nil
	}

	params := geoproc.Params{}
	if raw, ok := args["parameters"].(map[string]interface{}); ok {
		params = geoproc.Params(raw)
	}

	env, err := s.connector.Run(ctx, algorithm, params)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return envelopeResponse(env)
}

// handleServiceHealth implements the terrain_service_health tool.
func (s *Server) handleServiceHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.limiter.AllowCall() {
		return errorResponse(rateLimitMessage), nil
	}

	healthy := s.connector.HealthCheck(ctx)
	result := map[string]interface{}{
		"healthy":     healthy,
		"service_url": s.connector.Config().BaseURL,
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResponse(fmt.Sprintf("Failed to encode health result: %v", err)), nil
	}
	return textResponse(string(out)), nil
}

// handleListAlgorithms implements the terrain_list_algorithms tool.
func (s *Server) handleListAlgorithms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.limiter.AllowCall() {
		return errorResponse(rateLimitMessage), nil
	}

	algorithms, err := s.connector.ListAlgorithms(ctx)
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	out, err := json.MarshalIndent(algorithms, "", "  ")
	if err != nil {
		return errorResponse(fmt.Sprintf("Failed to encode algorithm list: %v", err)), nil
	}
	return textResponse(string(out)), nil
}

// envelopeResponse renders a successful envelope's data as a JSON text
// result.
func envelopeResponse(env *geoproc.Envelope) (*mcp.CallToolResult, error) {
	if len(env.Data) == 0 {
		return textResponse("{}"), nil
	}

	var pretty json.RawMessage = env.Data
	if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
		return textResponse(string(out)), nil
	}
	return textResponse(string(env.Data)), nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/terrainlab/terrain-mcp/internal/commands/algorithms"
	"github.com/terrainlab/terrain-mcp/internal/commands/health"
	"github.com/terrainlab/terrain-mcp/internal/commands/run"
	"github.com/terrainlab/terrain-mcp/internal/commands/serve"
	"github.com/terrainlab/terrain-mcp/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:           "terrain-mcp",
		Short:         "MCP server for geospatial terrain analysis",
		Long:          "terrain-mcp exposes terrain-analysis operations as MCP tools, delegating computation to a remote geoprocessing service.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to config file (default: ~/.config/terrain-mcp/config.yaml)")

	root.AddCommand(
		serve.NewCommand(),
		health.NewCommand(),
		algorithms.NewCommand(),
		run.NewCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package serve implements the `terrain-mcp serve` command.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/terrainlab/terrain-mcp/internal/commands/shared"
	"github.com/terrainlab/terrain-mcp/internal/mcp/server"
	"github.com/terrainlab/terrain-mcp/internal/version"
)

// NewCommand creates the serve command.
func NewCommand() *cobra.Command {
	var (
		logLevel    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the terrain MCP server",
		Long: `Start the terrain MCP (Model Context Protocol) server.

The server exposes terrain-analysis operations (slope, aspect, hillshade,
watershed, viewshed, solar radiation, habitat connectivity) as tools that
AI assistants can call. Geospatial computation is delegated to the remote
geoprocessing service configured via GEOPROC_SERVICE_URL or the config
file.

The server runs in stdio mode, suitable for MCP configuration such as:
  {
    "mcpServers": {
      "terrain": {
        "command": "terrain-mcp",
        "args": ["serve"]
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return runServe(configPath, logLevel, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Logging verbosity (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics on (e.g. :9464); disabled when empty")

	return cmd
}

func runServe(configPath, logLevel, metricsAddr string) error {
	logger, connector, err := shared.Setup(configPath, logLevel)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(server.ServerConfig{
		Version:   version.Version,
		Connector: connector,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("serving metrics", "addr", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived shutdown signal, shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}

		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

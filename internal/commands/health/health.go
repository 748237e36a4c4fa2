// Package health implements the `terrain-mcp health` command.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/terrainlab/terrain-mcp/internal/commands/shared"
)

// NewCommand creates the health command.
func NewCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the remote geoprocessing service",
		Long:  "Probe the geoprocessing service's /health endpoint and report whether it is ready. Exits non-zero when the service is unreachable or not ready.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			_, connector, err := shared.Setup(configPath, "error")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			baseURL := connector.Config().BaseURL
			if !connector.HealthCheck(ctx) {
				return fmt.Errorf("geoprocessing service at %s is not healthy", baseURL)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "geoprocessing service at %s is healthy\n", baseURL)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Health check timeout")

	return cmd
}

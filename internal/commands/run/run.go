// Package run implements the `terrain-mcp run` command, the CLI
// counterpart of the generic terrain_run_algorithm tool.
package run

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/terrainlab/terrain-mcp/internal/commands/shared"
	"github.com/terrainlab/terrain-mcp/internal/geoproc"
)

// NewCommand creates the run command.
func NewCommand() *cobra.Command {
	var (
		logLevel   string
		paramFlags []string
		paramsJSON string
	)

	cmd := &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Run an arbitrary geoprocessing algorithm by name",
		Long: `Dispatch one algorithm to the geoprocessing service and print its result.

Parameters can be given as repeated --param key=value flags (values are
parsed as JSON when possible, otherwise taken as strings) or as a single
--params-json object. File paths must be absolute.`,
		Example: `  terrain-mcp run native:slope --param dem_path=/data/dem.tif --param z_factor=2
  terrain-mcp run native:watershed --params-json '{"dem_path":"/data/dem.tif"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			_, connector, err := shared.Setup(configPath, logLevel)
			if err != nil {
				return err
			}

			params, err := buildParams(paramFlags, paramsJSON)
			if err != nil {
				return err
			}

			env, err := connector.Run(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(json.RawMessage(env.Data))
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Logging verbosity (trace, debug, info, warn, error)")
	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "Algorithm parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&paramsJSON, "params-json", "", "Algorithm parameters as a JSON object")

	return cmd
}

// buildParams merges --params-json and --param flags; individual --param
// flags win on key collisions.
func buildParams(paramFlags []string, paramsJSON string) (geoproc.Params, error) {
	params := geoproc.Params{}

	if paramsJSON != "" {
		if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
			return nil, fmt.Errorf("invalid --params-json: %w", err)
		}
	}

	for _, p := range paramFlags {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", p)
		}
		params[key] = parseValue(value)
	}

	return params, nil
}

// parseValue interprets a flag value as JSON when it decodes cleanly,
// so numbers, booleans, arrays, and objects come through typed; anything
// else stays a string.
func parseValue(value string) any {
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err == nil {
		return parsed
	}
	return value
}

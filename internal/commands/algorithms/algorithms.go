// Package algorithms implements the `terrain-mcp algorithms` command.
package algorithms

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/terrainlab/terrain-mcp/internal/commands/shared"
)

// NewCommand creates the algorithms command.
func NewCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "algorithms",
		Short: "List algorithms advertised by the geoprocessing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			_, connector, err := shared.Setup(configPath, "error")
			if err != nil {
				return err
			}

			algs, err := connector.ListAlgorithms(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(algs)
			}

			if len(algs) == 0 {
				fmt.Fprintln(out, "no algorithms advertised")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tGROUP")
			for _, a := range algs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.Name, a.Group)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolane/pkg/export"
	"github.com/matzehuels/phylolane/pkg/layout"
)

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output string
		opts   export.Options
		xdot   bool
	)

	cmd := &cobra.Command{
		Use:   "dot [layout.json]",
		Short: "Export a layout as Graphviz DOT",
		Long: `Export a layout as Graphviz DOT.

Nodes are pinned at their computed positions (x from the age scale, y from
the lane), so 'neato -n' reproduces the layout. With --xdot the DOT is run
through the embedded Graphviz and annotated with drawing operations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}
			dot := export.ToDOT(l, opts)
			data := []byte(dot)
			if xdot {
				if data, err = export.XDOT(cmd.Context(), dot); err != nil {
					return err
				}
			} else if err := export.Validate(dot); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Exported %d lineages", len(l.Nodes))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "show lineage labels")
	cmd.Flags().Float64Var(&opts.LaneSpacing, "lane-spacing", export.DefaultLaneSpacing, "distance between lanes")
	cmd.Flags().BoolVar(&xdot, "xdot", false, "emit xdot with Graphviz layout annotations")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolane/pkg/layout"
)

// rescaleCommand creates the rescale command.
func (c *CLI) rescaleCommand() *cobra.Command {
	var (
		output   string
		exponent float64
	)

	cmd := &cobra.Command{
		Use:   "rescale [layout.json]",
		Short: "Recompute coordinates under a new age-scale exponent",
		Long: `Recompute coordinates under a new age-scale exponent.

Lanes are kept; only x coordinates change. The layout is rewritten in place
unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}
			before := l.Scale.Exponent
			if err := l.Rescale(exponent); err != nil {
				return err
			}
			path := output
			if path == "" {
				path = args[0]
			}
			if err := layout.WriteFile(l, path); err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}
			printSuccess("Rescaled exponent %s %s %s", formatFloat(before), iconArrow, formatFloat(exponent))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().Float64VarP(&exponent, "exponent", "e", 0, "new exponent (>= 1)")
	_ = cmd.MarkFlagRequired("exponent")

	return cmd
}

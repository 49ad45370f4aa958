package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolane/pkg/errors"
	pkgio "github.com/matzehuels/phylolane/pkg/io"
	"github.com/matzehuels/phylolane/pkg/lineage"
	"github.com/matzehuels/phylolane/pkg/mrca"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		cfg        configFlags
		treatment  string
		duplicates string
		minimum    float64
		showMisses bool
	)

	cmd := &cobra.Command{
		Use:   "check [records] [estimates]",
		Short: "Score MRCA estimates against a known tree",
		Long: `Score MRCA estimates against a known tree.

For every estimated pair, the true MRCA is found in the tree built from the
records and its origin time is tested against the estimated bounds. Without
--config every configuration in the estimates file is scored.

With --min, the command fails when any configuration covers fewer than that
fraction of its pairs.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cfg.resolve(true)
			if err != nil {
				return err
			}
			records, err := pkgio.ImportRecords(args[0], pkgio.WithCeiling(c.Config.Scale.MaxObserved))
			if err != nil {
				return fmt.Errorf("load records %s: %w", args[0], err)
			}
			if treatment != "" {
				_, groups := lineage.GroupByTreatment(records)
				if records = groups[treatment]; len(records) == 0 {
					return errors.New(errors.ErrCodeNotFound, "no records for treatment %q", treatment)
				}
			}
			tree, err := lineage.Build(records)
			if err != nil {
				return err
			}
			idx, err := c.loadIndex(cmd.Context(), args[1], duplicates)
			if err != nil {
				return err
			}

			keys := []string{key}
			if key == "" {
				keys = idx.Configurations()
			}
			reports := make([]mrca.Report, len(keys))
			for i, k := range keys {
				reports[i] = idx.Check(tree, k)
			}

			fmt.Fprintln(out, reportTable(reports))
			if showMisses {
				for _, r := range reports {
					for _, m := range r.Misses {
						printDetail("%s %s %s: true %s outside [%s, %s] (mrca %s)",
							m.Estimate.TaxonA, iconArrow, m.Estimate.TaxonB,
							formatFloat(m.TrueTime), formatFloat(m.Estimate.Lower), formatFloat(m.Estimate.Upper), m.MRCA)
					}
				}
			}

			for _, r := range reports {
				if r.Unmatched > 0 {
					printWarning("%s: %d estimates name taxa missing from the tree", r.Configuration, r.Unmatched)
				}
				if minimum > 0 && r.Coverage() < minimum {
					return errors.New(errors.ErrCodeInvalidInput,
						"%s covers %.1f%% of pairs, below %.1f%%", r.Configuration, 100*r.Coverage(), 100*minimum)
				}
			}
			return nil
		},
	}

	cfg.register(cmd)
	cmd.Flags().StringVarP(&treatment, "treatment", "t", "", "use only records of this treatment")
	cmd.Flags().StringVar(&duplicates, "duplicates", "", "duplicate policy: reject or last-write-wins")
	cmd.Flags().Float64Var(&minimum, "min", 0, "fail below this coverage fraction")
	cmd.Flags().BoolVar(&showMisses, "misses", false, "list estimates that miss the true MRCA")

	return cmd
}

func reportTable(reports []mrca.Report) string {
	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{
			r.Configuration,
			strconv.Itoa(r.Checked),
			strconv.Itoa(r.Covered),
			strconv.Itoa(len(r.Misses)),
			fmt.Sprintf("%.1f%%", 100*r.Coverage()),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Configuration", "Checked", "Covered", "Missed", "Coverage").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 3 && row >= 0 && row < len(reports) && len(reports[row].Misses) > 0 {
				return StyleError
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

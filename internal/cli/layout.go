package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/phylolane/pkg/io"
	"github.com/matzehuels/phylolane/pkg/layout"
	"github.com/matzehuels/phylolane/pkg/pipeline"
)

type layoutFlags struct {
	output    string
	noCache   bool
	showLanes bool
	radius    int
	opts      pipeline.Options
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [records.csv|json|yaml]",
		Short: "Assign lanes and coordinates to every lineage",
		Long: `Assign lanes and coordinates to every lineage.

The input is a taxon table with one row per lineage: id, ancestor_list (or
parent_id), origin_time and destruction_time, plus optional name and
Treatment columns. A missing or NaN destruction time marks a lineage that is
still alive at the observation ceiling.

Each treatment in the input is laid out separately. With one treatment the
result goes to <input>.layout.json; with several, to
<input>.<n>.layout.json in first-seen order.

Settings not given as flags come from the [scale] and [lanes] sections of
the config file. Results are cached.`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			c.applyLayoutConfig(cmd, &f)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.showLanes, "lanes", false, "print the lane table")
	addLayoutFlags(cmd, &f)

	return cmd
}

// addLayoutFlags registers the flags shared by commands that lay out trees.
func addLayoutFlags(cmd *cobra.Command, f *layoutFlags) {
	opts := &f.opts
	cmd.Flags().StringVarP(&opts.Treatment, "treatment", "t", "", "lay out only this treatment")
	cmd.Flags().Float64Var(&opts.Scale.MaxObserved, "max-time", 0, "observation ceiling")
	cmd.Flags().Float64Var(&opts.Scale.RangeLow, "range-low", 0, "coordinate of time 0")
	cmd.Flags().Float64Var(&opts.Scale.RangeHigh, "range-high", 0, "coordinate of the ceiling")
	cmd.Flags().Float64VarP(&opts.Scale.Exponent, "exponent", "e", 0, "age scale exponent (>= 1)")
	cmd.Flags().IntVar(&f.radius, "radius", 0, "largest absolute lane number (0 allows lane 0 only)")
	cmd.Flags().BoolVar(&opts.SortLabels, "sort-labels", false, "order siblings by their largest descendant label")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts")
}

// applyLayoutConfig fills options the user did not set on the command line
// from the config file.
func (c *CLI) applyLayoutConfig(cmd *cobra.Command, f *layoutFlags) {
	opts := &f.opts
	cfg := c.Config.LayoutOptions()
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if !set("max-time") {
		opts.Scale.MaxObserved = cfg.Scale.MaxObserved
	}
	if !set("range-low") {
		opts.Scale.RangeLow = cfg.Scale.RangeLow
	}
	if !set("range-high") {
		opts.Scale.RangeHigh = cfg.Scale.RangeHigh
	}
	if !set("exponent") {
		opts.Scale.Exponent = cfg.Scale.Exponent
	}
	if set("radius") {
		opts.Radius = pipeline.Radius(f.radius)
	} else {
		opts.Radius = cfg.Radius
	}
	if !set("sort-labels") {
		opts.SortLabels = cfg.SortLabels
	}
}

func (c *CLI) runLayout(ctx context.Context, input string, f layoutFlags) error {
	if err := f.opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	records, err := pkgio.ImportRecords(input, pkgio.WithCeiling(f.opts.Scale.MaxObserved))
	if err != nil {
		return fmt.Errorf("load records %s: %w", input, err)
	}

	runner := c.newRunner(ctx, f.noCache)
	defer runner.Close()
	f.opts.Logger = c.Logger

	spinner := newSpinner(ctx, "Allocating lanes...")
	spinner.Start()
	res, err := runner.Execute(ctx, records, f.opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := layoutPaths(input, f.output, len(res.Layouts))
	for i, l := range res.Layouts {
		if err := layout.WriteFile(l, paths[i]); err != nil {
			return fmt.Errorf("write output %s: %w", paths[i], err)
		}
	}

	printSuccess("Layout complete")
	for i, l := range res.Layouts {
		printFile(paths[i])
		if l.Treatment != "" {
			printDetail("treatment %s", l.Treatment)
		}
		printStats(len(l.Nodes), l.ExtantCount(), distinctLanes(l), res.CacheInfo.AllHit())
		if f.showLanes {
			fmt.Fprintln(out, laneTable(l))
		}
	}
	printNewline()
	printNextStep("Explore the age scale", appName+" explore "+paths[0])
	return nil
}

// layoutPaths returns one output path per layout.
func layoutPaths(input, output string, n int) []string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	ext := ".layout.json"
	if output != "" {
		ext = filepath.Ext(output)
		base = strings.TrimSuffix(output, ext)
	}
	if n == 1 {
		if output != "" {
			return []string{output}
		}
		return []string{base + ext}
	}
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s.%d%s", base, i+1, ext)
	}
	return paths
}

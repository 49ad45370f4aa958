package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolane/pkg/errors"
	pkgio "github.com/matzehuels/phylolane/pkg/io"
	"github.com/matzehuels/phylolane/pkg/mrca"
	"github.com/matzehuels/phylolane/pkg/pipeline"
)

// configFlags selects an inference configuration either by key or by its
// three parts.
type configFlags struct {
	key         string
	policy      string
	differentia int
	target      int
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.key, "config", "", "configuration key, e.g. RecencyProportionalResolution644096")
	cmd.Flags().StringVar(&f.policy, "policy", "", "retention policy (with --differentia and --target)")
	cmd.Flags().IntVar(&f.differentia, "differentia", 0, "differentia width in bits")
	cmd.Flags().IntVar(&f.target, "target", 0, "target retained bits")
	cmd.MarkFlagsMutuallyExclusive("config", "policy")
}

// resolve returns the configuration key, or "" to mean every configuration
// when allowAll is set.
func (f *configFlags) resolve(allowAll bool) (string, error) {
	switch {
	case f.key != "":
		return f.key, nil
	case f.policy != "":
		return mrca.ConfigKey(f.policy, f.differentia, f.target), nil
	case allowAll:
		return "", nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "--config or --policy is required")
	}
}

func (c *CLI) loadIndex(ctx context.Context, path, duplicates string) (*mrca.Index, error) {
	estimates, err := pkgio.ImportEstimates(path)
	if err != nil {
		return nil, fmt.Errorf("load estimates %s: %w", path, err)
	}
	opts := c.Config.IndexOptions()
	if duplicates != "" {
		opts.Duplicates = duplicates
	}
	idx, err := pipeline.BuildIndex(ctx, estimates, opts)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("indexed estimates", "estimates", len(estimates), "pairs", idx.Len())
	return idx, nil
}

// lookupCommand creates the lookup command.
func (c *CLI) lookupCommand() *cobra.Command {
	var (
		cfg        configFlags
		duplicates string
	)

	cmd := &cobra.Command{
		Use:   "lookup [estimates] [taxon-a] [taxon-b]",
		Short: "Look up the MRCA bounds estimated for a pair of taxa",
		Long: `Look up the MRCA bounds estimated for a pair of taxa.

The estimates file has one row per pair: from_id, to_id, configuration,
lower_bound, upper_bound and confidence. The pair order does not matter.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cfg.resolve(false)
			if err != nil {
				return err
			}
			idx, err := c.loadIndex(cmd.Context(), args[0], duplicates)
			if err != nil {
				return err
			}
			e, ok := idx.Lookup(args[1], args[2], key)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "no estimate for %s and %s under %s", args[1], args[2], key)
			}
			printKeyValue("pair", e.TaxonA+" · "+e.TaxonB)
			printKeyValue("configuration", e.Configuration)
			printKeyValue("bounds", "["+formatFloat(e.Lower)+", "+formatFloat(e.Upper)+"]")
			printKeyValue("width", formatFloat(e.Width()))
			printKeyValue("confidence", strconv.FormatFloat(e.Confidence, 'f', -1, 64))
			return nil
		},
	}

	cfg.register(cmd)
	cmd.Flags().StringVar(&duplicates, "duplicates", "", "duplicate policy: reject or last-write-wins")

	return cmd
}

package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/phylolane/pkg/lane"
	"github.com/matzehuels/phylolane/pkg/layout"
	"github.com/matzehuels/phylolane/pkg/lineage"
	"github.com/matzehuels/phylolane/pkg/mrca"
	"github.com/matzehuels/phylolane/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout runs every stage on one tree's records without caching.
// opts must have been validated.
func ComputeLayout(ctx context.Context, records []lineage.Record, opts Options) (layout.Layout, error) {
	hooks := observability.Pipeline()
	treatment := opts.Treatment
	if treatment == "" && len(records) > 0 {
		treatment = records[0].Treatment
	}

	hooks.OnBuildStart(ctx, treatment, len(records))
	start := time.Now()
	tree, err := lineage.Build(records)
	if err == nil {
		err = tree.Validate()
	}
	if err != nil {
		hooks.OnBuildComplete(ctx, treatment, 0, time.Since(start), err)
		return layout.Layout{}, err
	}
	hooks.OnBuildComplete(ctx, treatment, tree.Len(), time.Since(start), nil)
	opts.Logger.Debug("built tree", "treatment", treatment, "nodes", tree.Len(), "height", tree.Height())

	if opts.SortLabels {
		tree.SortByMaxDescendantLabel()
	}

	start = time.Now()
	err = lane.New(lane.WithRadius(opts.LaneRadius())).Allocate(tree)
	if err != nil {
		hooks.OnAllocateComplete(ctx, treatment, 0, time.Since(start), err)
		return layout.Layout{}, err
	}

	age, err := opts.Scale.Age()
	if err != nil {
		return layout.Layout{}, err
	}
	l, err := layout.Project(tree, age)
	if err != nil {
		return layout.Layout{}, err
	}
	lo, hi := l.LaneSpan()
	hooks.OnAllocateComplete(ctx, treatment, distinctLanes(l), time.Since(start), nil)
	opts.Logger.Debug("allocated lanes", "treatment", treatment, "min", lo, "max", hi)

	return l, nil
}

func distinctLanes(l layout.Layout) int {
	seen := make(map[int]struct{})
	for _, n := range l.Nodes {
		seen[n.Lane] = struct{}{}
	}
	return len(seen)
}

// BuildIndex builds a pairwise MRCA index, emitting pipeline hooks.
func BuildIndex(ctx context.Context, estimates []mrca.Estimate, opts IndexOptions) (*mrca.Index, error) {
	policy, err := opts.Policy()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	idx, err := mrca.Build(estimates, mrca.WithDuplicatePolicy(policy))
	pairs := 0
	if idx != nil {
		pairs = idx.Len()
	}
	observability.Pipeline().OnIndexComplete(ctx, len(estimates), pairs, time.Since(start), err)
	return idx, err
}

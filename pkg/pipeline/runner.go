package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/phylolane/pkg/cache"
	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/layout"
	"github.com/matzehuels/phylolane/pkg/lineage"
	"github.com/matzehuels/phylolane/pkg/mrca"
	"github.com/matzehuels/phylolane/pkg/observability"
)

var tracer = otel.Tracer("github.com/matzehuels/phylolane/pkg/pipeline")

// Runner executes the pipeline with caching. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL is the cache lifetime of computed layouts.
	LayoutTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, LayoutTTL: cache.TTLLayout}
}

// Execute lays out every treatment in records, or only opts.Treatment when
// set. Treatments are processed concurrently; the first failure cancels the
// rest and is returned.
func (r *Runner) Execute(ctx context.Context, records []lineage.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	ctx, span := tracer.Start(ctx, "pipeline.Execute")
	defer span.End()
	start := time.Now()

	keys, groups := lineage.GroupByTreatment(records)
	if opts.Treatment != "" {
		if _, ok := groups[opts.Treatment]; !ok {
			err := errors.New(errors.ErrCodeNotFound, "no records for treatment %q", opts.Treatment)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		keys = []string{opts.Treatment}
	}
	span.SetAttributes(attribute.Int("records", len(records)), attribute.Int("treatments", len(keys)))

	layouts := make([]layout.Layout, len(keys))
	hits := make([]bool, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, key := range keys {
		g.Go(func() error {
			o := opts
			o.Treatment = key
			l, hit, err := r.LayoutWithCacheInfo(gctx, groups[key], o)
			if err != nil {
				if key == "" {
					return err
				}
				return fmt.Errorf("treatment %s: %w", key, err)
			}
			layouts[i], hits[i] = l, hit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res := &Result{Layouts: layouts}
	res.Stats.Records = len(records)
	for i, l := range layouts {
		res.Stats.Nodes += len(l.Nodes)
		if hits[i] {
			res.CacheInfo.LayoutHits++
		} else {
			res.CacheInfo.LayoutMisses++
		}
	}
	res.Stats.Duration = time.Since(start)

	r.Logger.Info("laid out lineages",
		"treatments", len(layouts),
		"nodes", res.Stats.Nodes,
		"cached", res.CacheInfo.LayoutHits,
		"duration", res.Stats.Duration)
	return res, nil
}

// LayoutWithCacheInfo lays out one tree's records, consulting the cache
// first, and reports whether the result was a cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, records []lineage.Record, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, false, err
	}

	ctx, span := tracer.Start(ctx, "pipeline.Layout")
	defer span.End()
	span.SetAttributes(attribute.String("treatment", opts.Treatment), attribute.Int("records", len(records)))

	hooks := observability.Cache()
	recordsHash, err := cache.HashJSON(records)
	if err != nil {
		return layout.Layout{}, false, err
	}
	key := r.Keyer.LayoutKey(recordsHash, opts.LayoutKeyOpts(opts.Treatment))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return cached, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	l, err := ComputeLayout(ctx, records, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return layout.Layout{}, false, err
	}
	if opts.Treatment != "" {
		l.Treatment = opts.Treatment
	}

	if data, err := layout.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.LayoutTTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit flag.
func (r *Runner) Layout(ctx context.Context, records []lineage.Record, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, records, opts)
	return l, err
}

// BuildIndex builds a pairwise MRCA index.
func (r *Runner) BuildIndex(ctx context.Context, estimates []mrca.Estimate, opts IndexOptions) (*mrca.Index, error) {
	ctx, span := tracer.Start(ctx, "pipeline.BuildIndex")
	defer span.End()

	idx, err := BuildIndex(ctx, estimates, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	r.Logger.Info("indexed estimates",
		"estimates", len(estimates),
		"pairs", idx.Len(),
		"configurations", len(idx.Configurations()))
	return idx, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

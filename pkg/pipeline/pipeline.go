// Package pipeline runs the records → tree → lanes → layout pipeline.
//
// This package is shared by the CLI and the HTTP server so both lay out
// trees the same way and share one caching scheme.
//
// # Stages
//
//  1. Build: reconstruct the tree with [lineage.Build] and check its
//     temporal invariants
//  2. Sort (optional): order siblings by their largest descendant label
//  3. Allocate: assign lanes with [lane.Allocator]
//  4. Project: map times to coordinates with a [scale.Age]
//
// A record batch may mix several treatments (reconstruction
// configurations). [Runner.Execute] lays out each treatment's tree
// concurrently, each goroutine owning its own tree.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, records, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, l := range res.Layouts {
//	    fmt.Println(l.Treatment, len(l.Nodes))
//	}
//
// Pairwise estimate indexes are built with [Runner.BuildIndex].
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylolane/pkg/cache"
	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/lane"
	"github.com/matzehuels/phylolane/pkg/layout"
	"github.com/matzehuels/phylolane/pkg/mrca"
	"github.com/matzehuels/phylolane/pkg/scale"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configure a layout run. The struct doubles as the JSON body of
// the HTTP layout request.
type Options struct {
	// Treatment selects one treatment from a mixed batch. Empty lays out
	// every treatment.
	Treatment string `json:"treatment,omitempty"`

	// Scale settings; zero fields take the scale package defaults.
	Scale scale.Params `json:"scale"`

	// Radius bounds lane numbers to ±Radius. Nil means lane.DefaultRadius;
	// zero allows lane 0 only.
	Radius *int `json:"radius,omitempty"`

	// SortLabels orders siblings by their largest descendant label before
	// lanes are allocated.
	SortLabels bool `json:"sort_labels,omitempty"`

	// Refresh skips cache reads.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults fills in defaults and checks that the scale is
// usable. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	d := scale.DefaultParams()
	if o.Scale.MaxObserved == 0 {
		o.Scale.MaxObserved = d.MaxObserved
	}
	if o.Scale.RangeLow == 0 && o.Scale.RangeHigh == 0 {
		o.Scale.RangeLow, o.Scale.RangeHigh = d.RangeLow, d.RangeHigh
	}
	if o.Scale.Exponent == 0 {
		o.Scale.Exponent = d.Exponent
	}
	if o.Radius == nil {
		o.Radius = Radius(lane.DefaultRadius)
	}
	if *o.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "lane radius must not be negative, got %d", *o.Radius)
	}
	if _, err := o.Scale.Age(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Radius returns n as an [Options.Radius] value.
func Radius(n int) *int { return &n }

// LaneRadius returns the configured radius, or lane.DefaultRadius when none
// is set.
func (o *Options) LaneRadius() int {
	if o.Radius == nil {
		return lane.DefaultRadius
	}
	return *o.Radius
}

// LayoutKeyOpts returns the cache key options for a layout of treatment.
func (o *Options) LayoutKeyOpts(treatment string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Treatment:   treatment,
		MaxObserved: o.Scale.MaxObserved,
		RangeLow:    o.Scale.RangeLow,
		RangeHigh:   o.Scale.RangeHigh,
		Exponent:    o.Scale.Exponent,
		Radius:      o.LaneRadius(),
		SortLabels:  o.SortLabels,
	}
}

// IndexOptions configure [Runner.BuildIndex].
type IndexOptions struct {
	// Duplicates is "reject" (default) or "last-write-wins".
	Duplicates string `json:"duplicates,omitempty"`
}

// Policy parses Duplicates.
func (o IndexOptions) Policy() (mrca.DuplicatePolicy, error) {
	return mrca.ParseDuplicatePolicy(o.Duplicates)
}

// =============================================================================
// Results
// =============================================================================

// Result is the output of [Runner.Execute].
type Result struct {
	// Layouts holds one layout per treatment in first-seen order.
	Layouts []layout.Layout

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Records  int
	Nodes    int
	Duration time.Duration
}

// CacheInfo counts layouts served from the cache.
type CacheInfo struct {
	LayoutHits   int
	LayoutMisses int
}

// AllHit reports whether every layout came from the cache.
func (c CacheInfo) AllHit() bool { return c.LayoutMisses == 0 && c.LayoutHits > 0 }

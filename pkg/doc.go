// Package pkg provides the core libraries for phylolane lineage layouts.
//
// # Overview
//
// phylolane takes the flat taxon tables produced by phylogeny reconstruction
// runs and turns them into data a renderer can draw: a rooted tree, one
// overlap-free display lane per lineage, and x coordinates from a power-law
// age scale. Separately it indexes pairwise MRCA bound estimates for
// constant-time lookup.
//
// # Architecture
//
// The typical data flow:
//
//	taxon records (CSV/JSON/YAML)
//	         ↓
//	    [lineage] package (rebuild and validate the tree)
//	         ↓
//	    [lane] package (assign display lanes)
//	         ↓
//	    [scale] + [layout] packages (project times to coordinates)
//	         ↓
//	    JSON layout / DOT / HTTP response
//
// # Quick Start
//
//	records, _ := io.ImportRecords("run.csv", io.WithCeiling(5000))
//	tree, _ := lineage.Build(records)
//	_ = lane.Allocate(tree)
//	age, _ := scale.DefaultParams().Age()
//	l, _ := layout.Project(tree, age)
//
//	_ = l.Rescale(4) // lanes stay put, only coordinates move
//
// Index MRCA estimates:
//
//	estimates, _ := io.ImportEstimates("estimates.csv")
//	idx, _ := mrca.Build(estimates)
//	e, ok := idx.Lookup("12", "7", mrca.ConfigKey("RecencyProportionalResolution", 64, 4096))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [lineage] - Records, the arena-backed tree, MRCA and ordering helpers.
//
// [lane] - Lane allocation with per-branch scopes.
//
// [scale] - The power-law age scale.
//
// [mrca] - Symmetric pairwise estimate index and coverage checks.
//
// ## Serialization
//
// [layout] - Serializable laid-out trees. [io] - Record and estimate loaders.
// [export] - Graphviz DOT export.
//
// ## Infrastructure
//
// [pipeline] - Records to layouts, one tree per treatment, with caching.
// Used by the CLI and the HTTP server alike.
//
// [cache] - Null, file and Redis caches plus key derivation.
//
// [store] - Memory, file and MongoDB persistence for layouts and estimate sets.
//
// [server] - The chi HTTP API. [config] - TOML configuration.
// [observability] - Hooks with a Prometheus implementation.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [lineage]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/lineage
// [lane]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/lane
// [scale]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/scale
// [mrca]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/mrca
// [layout]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/layout
// [io]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/io
// [export]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/phylolane/pkg/observability
package pkg

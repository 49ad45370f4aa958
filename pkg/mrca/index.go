package mrca

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/phylolane/pkg/errors"
)

// DuplicatePolicy decides what [Build] does with a second, conflicting
// estimate for a pair and configuration it has already seen.
type DuplicatePolicy int

const (
	// Reject fails the build with a DUPLICATE_ESTIMATE error.
	Reject DuplicatePolicy = iota
	// LastWriteWins keeps the estimate that appears last.
	LastWriteWins
)

// String returns the policy's configuration name.
func (p DuplicatePolicy) String() string {
	switch p {
	case LastWriteWins:
		return "last-write-wins"
	default:
		return "reject"
	}
}

// ParseDuplicatePolicy parses "reject" or "last-write-wins". The empty string
// selects Reject.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return Reject, nil
	case "last-write-wins", "lww":
		return LastWriteWins, nil
	}
	return Reject, errors.New(errors.ErrCodeInvalidConfig, "unknown duplicate policy %q", s)
}

// Option configures [Build].
type Option func(*options)

type options struct {
	duplicates DuplicatePolicy
}

// WithDuplicatePolicy sets how conflicting duplicates are handled.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) { o.duplicates = p }
}

type key struct {
	a, b, cfg string
}

// Index answers pairwise MRCA lookups. It is read-only after [Build] and
// safe for concurrent use.
type Index struct {
	entries map[key]Estimate
	configs map[string]int
	pairs   int
}

// Build indexes estimates.
//
// Every estimate is validated first; an invalid one fails the build with an
// INVALID_INPUT error naming its position. Conflicting duplicates are
// handled according to the duplicate policy.
func Build(estimates []Estimate, opts ...Option) (*Index, error) {
	o := options{duplicates: Reject}
	for _, opt := range opts {
		opt(&o)
	}

	idx := &Index{
		entries: make(map[key]Estimate, 2*len(estimates)),
		configs: make(map[string]int),
	}
	for i, e := range estimates {
		if err := e.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "estimate %d", i)
		}

		k := key{e.TaxonA, e.TaxonB, e.Configuration}
		if prev, ok := idx.entries[k]; ok {
			if prev.sameBounds(e) {
				continue
			}
			if o.duplicates == Reject {
				return nil, errors.New(errors.ErrCodeDuplicateEstimate,
					"conflicting estimates for (%s, %s) under %q: [%g, %g] and [%g, %g]",
					e.TaxonA, e.TaxonB, e.Configuration, prev.Lower, prev.Upper, e.Lower, e.Upper)
			}
		} else {
			idx.pairs++
			idx.configs[e.Configuration]++
		}

		idx.entries[k] = e
		idx.entries[key{e.TaxonB, e.TaxonA, e.Configuration}] = e
	}
	return idx, nil
}

// Lookup returns the estimate for taxa a and b under cfg. The result is the
// same for either argument order. A missing estimate is reported by ok ==
// false and is not an error.
func (idx *Index) Lookup(a, b, cfg string) (e Estimate, ok bool) {
	e, ok = idx.entries[key{a, b, cfg}]
	return e, ok
}

// Len returns the number of distinct pair and configuration combinations.
func (idx *Index) Len() int { return idx.pairs }

// Configurations returns the distinct configuration keys in sorted order.
func (idx *Index) Configurations() []string {
	out := make([]string, 0, len(idx.configs))
	for c := range idx.configs {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Pairs returns every estimate stored under cfg once, sorted by taxon pair.
func (idx *Index) Pairs(cfg string) []Estimate {
	var out []Estimate
	for k, e := range idx.entries {
		// Each estimate sits under two keys; keep the one in its own
		// orientation. Self pairs have only one key.
		if k.cfg != cfg || k.a != e.TaxonA {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y Estimate) int {
		return cmp.Or(cmp.Compare(x.TaxonA, y.TaxonA), cmp.Compare(x.TaxonB, y.TaxonB))
	})
	return out
}

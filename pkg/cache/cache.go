// Package cache stores computed layouts and indexes between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the HTTP server, and [NullCache] when caching is disabled. Keys come
// from a [Keyer], which hashes the input content together with every option
// that affects the result, so a changed input or setting never hits a stale
// entry.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLIndex  = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// LayoutKeyOpts are the settings that change a computed layout.
type LayoutKeyOpts struct {
	Treatment   string  `json:"treatment"`
	MaxObserved float64 `json:"max_observed"`
	RangeLow    float64 `json:"range_low"`
	RangeHigh   float64 `json:"range_high"`
	Exponent    float64 `json:"exponent"`
	Radius      int     `json:"radius"`
	SortLabels  bool    `json:"sort_labels"`
}

// IndexKeyOpts are the settings that change a built index.
type IndexKeyOpts struct {
	Duplicates string `json:"duplicates"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(recordsHash string, opts LayoutKeyOpts) string
	IndexKey(estimatesHash string, opts IndexKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "index:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns the key for a layout of the given records.
func (DefaultKeyer) LayoutKey(recordsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", recordsHash, opts)
}

// IndexKey returns the key for an index over the given estimates.
func (DefaultKeyer) IndexKey(estimatesHash string, opts IndexKeyOpts) string {
	return hashKey("index", estimatesHash, opts)
}

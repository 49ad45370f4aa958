package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/phylolane/pkg/cache"
	"github.com/matzehuels/phylolane/pkg/pipeline"
	"github.com/matzehuels/phylolane/pkg/store"
)

// CacheDir returns the file cache directory: [cache] dir when set, else
// $XDG_CACHE_HOME/phylolane or ~/.cache/phylolane.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// OpenCache creates the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendFile:
		dir, err := c.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	default:
		return cache.NewNullCache(), nil
	}
}

// OpenStore creates the configured document store.
func (c Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case BackendMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoOptions{
			URI:      c.Store.MongoURI,
			Database: c.Store.Database,
			TTL:      c.Store.TTL.Duration,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	case BackendFile:
		fs, err := store.NewFileStore(c.Store.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	default:
		return store.NewMemoryStore(), nil
	}
}

// LayoutOptions returns pipeline options seeded from the [scale] and
// [lanes] sections.
func (c Config) LayoutOptions() pipeline.Options {
	return pipeline.Options{
		Scale:      c.Scale,
		Radius:     pipeline.Radius(c.Lanes.Radius),
		SortLabels: c.Lanes.SortLabels,
	}
}

// IndexOptions returns index options from the [index] section.
func (c Config) IndexOptions() pipeline.IndexOptions {
	return pipeline.IndexOptions{Duplicates: c.Index.Duplicates}
}

// CacheTTL returns the layout cache lifetime, or the package default when
// unset.
func (c Config) CacheTTL() time.Duration {
	if c.Cache.TTL.Duration <= 0 {
		return cache.TTLLayout
	}
	return c.Cache.TTL.Duration
}

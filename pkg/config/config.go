// Package config loads phylolane settings from a TOML file.
//
// The default location follows the XDG base directory convention:
// $XDG_CONFIG_HOME/phylolane/config.toml, falling back to
// ~/.config/phylolane/config.toml. A missing default file is not an error;
// every setting has a default.
//
// # Example
//
//	[scale]
//	max_observed = 5000
//	range_low = 1
//	range_high = 638
//	exponent = 10
//
//	[lanes]
//	radius = 10
//
//	[index]
//	duplicates = "reject"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/lane"
	"github.com/matzehuels/phylolane/pkg/mrca"
	"github.com/matzehuels/phylolane/pkg/scale"
)

const appName = "phylolane"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config is the full configuration file.
type Config struct {
	Scale  scale.Params `toml:"scale"`
	Lanes  Lanes        `toml:"lanes"`
	Index  Index        `toml:"index"`
	Cache  Cache        `toml:"cache"`
	Store  Store        `toml:"store"`
	Server Server       `toml:"server"`
}

type Lanes struct {
	Radius     int  `toml:"radius"`
	SortLabels bool `toml:"sort_labels"`
}

type Index struct {
	Duplicates string `toml:"duplicates"` // "reject" or "last-write-wins"
}

type Cache struct {
	Backend       string   `toml:"backend"` // "file", "redis" or "none"
	Dir           string   `toml:"dir,omitempty"`
	RedisAddr     string   `toml:"redis_addr,omitempty"`
	RedisPassword string   `toml:"redis_password,omitempty"`
	RedisDB       int      `toml:"redis_db,omitempty"`
	TTL           Duration `toml:"ttl"`
}

type Store struct {
	Backend  string   `toml:"backend"` // "memory", "file" or "mongo"
	Dir      string   `toml:"dir,omitempty"`
	MongoURI string   `toml:"mongo_uri,omitempty"`
	Database string   `toml:"database,omitempty"`
	TTL      Duration `toml:"ttl,omitempty"`
}

type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scale: scale.DefaultParams(),
		Lanes: Lanes{Radius: lane.DefaultRadius},
		Index: Index{Duplicates: "reject"},
		Cache: Cache{Backend: BackendFile, TTL: Duration{7 * 24 * time.Hour}},
		Store: Store{Backend: BackendMemory, Database: appName},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{30 * time.Second},
			MaxBodyBytes: 64 << 20,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config at path over the defaults. An empty path loads the
// default location and tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !explicit {
				return Default(), nil
			}
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return Config{}, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return Config{}, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML from r over the defaults and validates the result.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	if _, err := c.Scale.Age(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[scale]")
	}
	if c.Lanes.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[lanes] radius must not be negative")
	}
	if _, err := mrca.ParseDuplicatePolicy(c.Index.Duplicates); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[index]")
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] redis backend needs redis_addr")
	}
	if !slices.Contains([]string{BackendMemory, BackendFile, BackendMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "[store] unknown backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[store] mongo backend needs mongo_uri")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] max_body_bytes must not be negative")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

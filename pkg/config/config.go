// Package config loads phylo settings from a TOML file.
//
// Settings are resolved in increasing order of precedence: built-in
// defaults, the config file, environment variables, then command-line
// flags (applied by the caller). The file lives at
// $XDG_CONFIG_HOME/phylo/config.toml unless a path is given:
//
//	tolerance = 1e-6
//	seed = 7
//
//	[cache]
//	dir = "/var/cache/phylo"
//	redis_addr = "localhost:6379"
//	key_prefix = "lab:"
//	ttl = "72h"
//
//	[storage]
//	mongo_uri = "mongodb://localhost:27017"
//	database = "phylo"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/phylo/pkg/errors"
)

const appName = "phylo"

// Environment variables that override file settings.
const (
	EnvRedisAddr = "PHYLO_REDIS_ADDR"
	EnvMongoURI  = "PHYLO_MONGO_URI"
)

// Config is the full set of file-configurable settings.
type Config struct {
	Tolerance float64       `toml:"tolerance"`
	Seed      uint64        `toml:"seed"`
	Cache     CacheConfig   `toml:"cache"`
	Storage   StorageConfig `toml:"storage"`
	Server    ServerConfig  `toml:"server"`
}

// CacheConfig selects the result cache. A Redis address takes precedence
// over the file cache directory. KeyPrefix namespaces Redis keys so that
// several deployments can share one server.
type CacheConfig struct {
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	KeyPrefix string   `toml:"key_prefix"`
	TTL       Duration `toml:"ttl"`
}

// StorageConfig selects the tree archive. Without a Mongo URI the archive
// is kept as files under Dir.
type StorageConfig struct {
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures "phylo serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("90m").
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
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Tolerance: 1e-8,
		Seed:      42,
		Cache: CacheConfig{
			Dir:       xdgDir("XDG_CACHE_HOME", ".cache"),
			KeyPrefix: appName + ":",
			TTL:       Duration{7 * 24 * time.Hour},
		},
		Storage: StorageConfig{
			Dir:      filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "archive"),
			Database: "phylo",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

// Load reads the config file at path on top of the defaults and applies
// environment overrides. With an empty path the default location is used
// and a missing file is not an error; a missing explicit path fails with
// [errs.ErrCodeFileNotFound].
//
// Unknown keys are rejected so that typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
	case err != nil:
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "config %s", path)
	default:
		if keys := md.Undecoded(); len(keys) > 0 {
			names := make([]string, len(keys))
			for i, k := range keys {
				names[i] = k.String()
			}
			return nil, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(names, ", "))
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Storage.MongoURI = v
	}
}

// Validate rejects settings no command could run with.
func (c *Config) Validate() error {
	if c.Tolerance < 0 || math.IsNaN(c.Tolerance) {
		return errs.New(errs.ErrCodeInvalidInput, "tolerance must not be negative, got %v", c.Tolerance)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "cache ttl must not be negative, got %v", c.Cache.TTL)
	}
	return nil
}

// xdgDir returns $env/phylo, falling back to ~/fallback/phylo.
func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, fallback, appName)
}

// Package config loads sunburst settings from a TOML file.
//
// Settings are resolved in order: built-in defaults, the config file, the
// SUNBURST_API_URL environment variable, then command-line flags (applied
// by the caller). A missing default config file is not an error.
//
//	[api]
//	base_url = "https://demo.kustodian.org/api"
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	ttl = "5m"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	view_ttl = "30m"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kustodian/sunburst/pkg/cache"
	errs "github.com/kustodian/sunburst/pkg/errors"
)

// EnvAPIURL overrides [API.BaseURL] when set.
const EnvAPIURL = "SUNBURST_API_URL"

// Config is the full configuration file.
type Config struct {
	API    API    `toml:"api"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Render Render `toml:"render"`
}

// API configures the report API client.
type API struct {
	BaseURL   string        `toml:"base_url"`
	Timeout   time.Duration `toml:"timeout"`
	UserAgent string        `toml:"user_agent"`
}

// Cache configures the HTTP response cache.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
}

// Server configures `sunburst serve`.
type Server struct {
	Addr    string        `toml:"addr"`
	ViewTTL time.Duration `toml:"view_ttl"`
}

// Render holds default output dimensions.
type Render struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: API{
			BaseURL: "https://demo.kustodian.org/api",
			Timeout: 10 * time.Second,
		},
		Cache: Cache{
			Backend:       cache.BackendFile,
			TTL:           5 * time.Minute,
			RedisAddr:     "localhost:6379",
			MongoDatabase: "sunburst",
		},
		Server: Server{
			Addr:    ":8080",
			ViewTTL: 30 * time.Minute,
		},
		Render: Render{
			Width:  750,
			Height: 600,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sunburst/config.toml, falling back
// to the platform config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "sunburst", "config.toml"), nil
}

// Load reads the config file at path. An empty path means [DefaultPath], and
// in that case a missing file yields the defaults. An explicitly named file
// must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return applyEnv(Default()), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return applyEnv(Default()), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return applyEnv(cfg), nil
}

// Parse decodes TOML on top of the defaults and validates the result.
// Unknown keys are rejected so typos do not pass silently.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "cache.backend %q: want file, redis, mongo or none", c.Cache.Backend)
	}
	if c.API.BaseURL == "" {
		return errs.New(errs.ErrCodeInvalidInput, "api.base_url is required")
	}
	if c.API.Timeout < 0 || c.Cache.TTL < 0 || c.Server.ViewTTL < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "durations must not be negative")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	}
	return nil
}

// CacheOptions converts the [cache] section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
		Mongo: cache.MongoOptions{
			URI:      c.Cache.MongoURI,
			Database: c.Cache.MongoDatabase,
		},
	}
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	return cfg
}

// Package config loads surflabel settings from TOML or YAML files.
//
// The format is chosen by file extension (.toml, .yaml, .yml). A missing
// file is not an error: Load returns Default() instead. Command-line flags
// override whatever the file sets.
//
// Example config.toml:
//
//	[dilate]
//	radius = 2.0
//	workers = 8
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/surflabel/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	Dilate Dilate `toml:"dilate" yaml:"dilate"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
	Server Server `toml:"server" yaml:"server"`
	Log    Log    `toml:"log" yaml:"log"`
}

// Dilate holds defaults for dilation runs.
type Dilate struct {
	// Radius is used when --distance is not given; zero means "required".
	Radius float64 `toml:"radius" yaml:"radius"`
	// Workers per column; zero selects the CPU count.
	Workers int `toml:"workers" yaml:"workers"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend string        `toml:"backend" yaml:"backend"`
	Dir     string        `toml:"dir" yaml:"dir"`
	TTL     time.Duration `toml:"ttl" yaml:"ttl"`
	Redis   Redis         `toml:"redis" yaml:"redis"`
}

// Redis configures the redis cache backend.
type Redis struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// Server configures `surflabel serve`.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
	// MaxBodyBytes limits request bodies on the dilate endpoint.
	MaxBodyBytes int64 `toml:"max_body_bytes" yaml:"max_body_bytes"`
	// Timeout bounds a single request.
	Timeout time.Duration `toml:"timeout" yaml:"timeout"`
	Metrics bool          `toml:"metrics" yaml:"metrics"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: Cache{
			Backend: BackendFile,
			TTL:     7 * 24 * time.Hour,
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "surflabel:",
			},
		},
		Server: Server{
			Addr:         ":8080",
			MaxBodyBytes: 256 << 20,
			Timeout:      5 * time.Minute,
			Metrics:      true,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns the per-user config file location, e.g.
// ~/.config/surflabel/config.toml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "surflabel", "config.toml"), nil
}

// Load reads the config at path on top of Default(). An empty path or a
// missing file yields the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml or .yaml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if err := errors.ValidateRadius(c.Dilate.Radius); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "dilate.radius")
	}
	if c.Dilate.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dilate.workers must be >= 0")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// Save writes cfg to path in the format implied by its extension, creating
// parent directories as needed.
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml or .yaml)", ext)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

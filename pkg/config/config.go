// Package config loads flowstudio configuration from a TOML file.
//
// The file lives at ~/.config/flowstudio/config.toml by default; the
// FLOWSTUDIO_CONFIG environment variable or the --config flag override the
// path. A missing file is not an error: every field has a usable default, so
// the CLI works out of the box against local file storage.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	flowerrors "github.com/mistaa/flowstudio/pkg/errors"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "FLOWSTUDIO_CONFIG"

// Config is the full application configuration.
type Config struct {
	Server  Server   `toml:"server"`
	Storage Storage  `toml:"storage"`
	Cache   CacheCfg `toml:"cache"`
	Editor  Editor   `toml:"editor"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	// Backend is "file", "mongo" or "http".
	Backend string `toml:"backend"`

	// Dir is the file backend's root directory.
	Dir string `toml:"dir"`

	// Mongo backend settings.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// BaseURL is the http backend's server address.
	BaseURL string `toml:"base_url"`
}

// CacheCfg selects and configures the payload cache.
type CacheCfg struct {
	// Backend is "none", "file" or "redis".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory.
	Dir string `toml:"dir"`

	// Redis backend settings.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// TTL is how long cached payloads live. Zero means no expiration.
	TTL duration `toml:"ttl"`
}

// Editor configures the canvas TUI and render sinks.
type Editor struct {
	Dark       bool    `toml:"dark"`
	PixelRatio float64 `toml:"pixel_ratio"`
}

// duration wraps time.Duration for TOML string values like "5m".
type duration struct {
	time.Duration
}

// UnmarshalText implements toml's text unmarshaling for durations.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server:  Server{Addr: ":8085"},
		Storage: Storage{Backend: "file", Dir: defaultDataDir()},
		Cache:   CacheCfg{Backend: "none", TTL: duration{10 * time.Minute}},
		Editor:  Editor{PixelRatio: 1},
	}
}

// Load reads the configuration from path. An empty path resolves via
// FLOWSTUDIO_CONFIG and then the default location. Fields absent from the
// file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// CacheTTL returns the configured cache TTL.
func (c Config) CacheTTL() time.Duration {
	return c.Cache.TTL.Duration
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case "file", "mongo":
	case "http":
		if err := flowerrors.ValidateURL(c.Storage.BaseURL); err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Cache.Backend {
	case "none", "file", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Editor.PixelRatio <= 0 {
		return fmt.Errorf("pixel_ratio must be positive, got %v", c.Editor.PixelRatio)
	}
	return nil
}

// DefaultPath returns ~/.config/flowstudio/config.toml, or "" when the home
// directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "flowstudio", "config.toml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "flowstudio-data"
	}
	return filepath.Join(home, ".local", "share", "flowstudio", "graphs")
}

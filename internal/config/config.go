package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smallnest/nsdebug/debug"
	"gopkg.in/yaml.v3"
)

// Store types understood by the CLI
const (
	StoreEnv      = "env"
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSqlite   = "sqlite"
)

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects where the enable-string is kept
type StoreConfig struct {
	Type     string         `yaml:"type"`
	Variable string         `yaml:"variable,omitempty"` // env store
	Path     string         `yaml:"path,omitempty"`     // file and sqlite stores
	Table    string         `yaml:"table,omitempty"`    // sqlite and postgres stores
	Redis    RedisConfig    `yaml:"redis,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr,omitempty"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db,omitempty"`
	Prefix   string        `yaml:"prefix,omitempty"`
	TTL      time.Duration `yaml:"ttl,omitempty"`
	Limit    int           `yaml:"limit,omitempty"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

// OutputConfig mirrors the DEBUG_* variables. Unset fields leave the
// environment in charge.
type OutputConfig struct {
	Colors         *bool  `yaml:"colors,omitempty"`
	ExtendedColors bool   `yaml:"extended_colors,omitempty"`
	HideDate       bool   `yaml:"hide_date,omitempty"`
	Depth          int    `yaml:"depth,omitempty"`
	ShowHidden     bool   `yaml:"show_hidden,omitempty"`
	Sink           string `yaml:"sink,omitempty"` // "stderr", "stdout", "golog" or "zerolog"
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Backend string `yaml:"backend,omitempty"` // "std" or "golog"
}

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Type:     StoreEnv,
			Variable: "DEBUG",
			Path:     filepath.Join(ConfigDir(), "namespaces.jsonl"),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Output: OutputConfig{
			Sink: "stderr",
		},
		Logging: LoggingConfig{
			Level:   "warn",
			Backend: "std",
		},
	}
}

// ConfigDir returns the directory holding the config file
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".nsdebug"
	}
	return filepath.Join(dir, "nsdebug")
}

// ConfigPath returns the default config file path
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the default config file
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads path over the defaults. A missing file yields the
// defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the config to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Validate checks the values that have a fixed set of choices
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreEnv, StoreMemory, StoreFile, StoreRedis, StorePostgres, StoreSqlite:
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	switch c.Output.Sink {
	case "", "stderr", "stdout", "golog", "zerolog":
	default:
		return fmt.Errorf("unknown sink %q", c.Output.Sink)
	}
	switch c.Logging.Backend {
	case "", "std", "golog":
	default:
		return fmt.Errorf("unknown logging backend %q", c.Logging.Backend)
	}
	return nil
}

// Options merges the output settings over the DEBUG_* variables in environ
func (o OutputConfig) Options(environ []string) debug.Options {
	opts := debug.OptionsFromEnv(environ)
	if o.Colors != nil {
		opts.Colors = debug.Bool(*o.Colors)
	}
	opts.ExtendedColors = opts.ExtendedColors || o.ExtendedColors
	opts.HideDate = opts.HideDate || o.HideDate
	opts.ShowHidden = opts.ShowHidden || o.ShowHidden
	if o.Depth > 0 {
		opts.Depth = o.Depth
	}
	return opts
}

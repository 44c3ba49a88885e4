// Package config defines the navroute settings and how they are loaded.
package config

import (
	"fmt"
	"strings"

	"github.com/pdrpinto/hpastar"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. NAVROUTE_WORKERS.
const EnvPrefix = "NAVROUTE"

// Config holds the search and runtime settings.
type Config struct {
	// Scene is the path of the YAML scene file.
	Scene string `mapstructure:"scene"`
	// ExpansionLimit caps node expansions per search.
	ExpansionLimit int `mapstructure:"expansion_limit"`
	// BestEffort returns partial local routes instead of failing.
	BestEffort bool `mapstructure:"best_effort"`
	// Workers bounds concurrent region searches. 0 means one per CPU.
	Workers int `mapstructure:"workers"`
	// Seed makes connector choice deterministic when non-zero.
	Seed uint64 `mapstructure:"seed"`
	// RouteCacheSize is the per-grid LRU size; 0 disables caching.
	RouteCacheSize int `mapstructure:"route_cache_size"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// Trace prints spans to stderr.
	Trace bool `mapstructure:"trace"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ExpansionLimit: hpastar.DefaultExpansionLimit,
		RouteCacheSize: 128,
		LogLevel:       "info",
	}
}

// SetDefaults registers Default with v so that files, env and flags layer on top.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("scene", d.Scene)
	v.SetDefault("expansion_limit", d.ExpansionLimit)
	v.SetDefault("best_effort", d.BestEffort)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("route_cache_size", d.RouteCacheSize)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("trace", d.Trace)
}

// Load reads the config file (if one is set) and environment overrides.
func Load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the library would silently ignore.
func (c Config) Validate() error {
	if c.ExpansionLimit <= 0 {
		return fmt.Errorf("expansion_limit must be positive, got %d", c.ExpansionLimit)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.RouteCacheSize < 0 {
		return fmt.Errorf("route_cache_size must not be negative, got %d", c.RouteCacheSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// SearchOptions translates the settings into search options.
func (c Config) SearchOptions() []hpastar.Option {
	options := []hpastar.Option{
		hpastar.WithExpansionLimit(c.ExpansionLimit),
		hpastar.WithBestEffort(c.BestEffort),
		hpastar.WithWorkers(c.Workers),
	}
	if c.Seed != 0 {
		options = append(options, hpastar.WithConnectorPicker(hpastar.SeededPicker(c.Seed)))
	}
	return options
}

// Package config loads server configuration from an optional YAML file,
// RPG_PROGRESSION_ environment variables and defaults, in that order of
// precedence after explicit flag bindings.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. RPG_PROGRESSION_SERVER_GRPC_PORT
const EnvPrefix = "RPG_PROGRESSION"

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// ServerConfig holds gRPC listener settings
type ServerConfig struct {
	GRPCPort        int           `mapstructure:"grpc_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	PoolSize    int           `mapstructure:"pool_size"`
	MaxRetries  int           `mapstructure:"max_retries"`
	UseTLS      bool          `mapstructure:"use_tls"`
	PingTimeout time.Duration `mapstructure:"ping_timeout"`
}

// SQLiteConfig holds SQLite settings
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig selects and configures the character store
type StorageConfig struct {
	Backend string       `mapstructure:"backend"`
	Redis   RedisConfig  `mapstructure:"redis"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
}

// LoggingConfig holds structured logging settings
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format is json or console
	Format string `mapstructure:"format"`
}

// RulesConfig points at optional homebrew class profiles
type RulesConfig struct {
	HomebrewDir string `mapstructure:"homebrew_dir"`
}

// ProgressionConfig holds level-up session settings
type ProgressionConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// SpellsConfig configures the external spell catalog
type SpellsConfig struct {
	CatalogEnabled bool          `mapstructure:"catalog_enabled"`
	BaseURL        string        `mapstructure:"base_url"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// Config is the top-level server configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Rules       RulesConfig       `mapstructure:"rules"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Spells      SpellsConfig      `mapstructure:"spells"`
}

var (
	validLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats  = map[string]bool{"json": true, "console": true}
	validBackends = map[string]bool{StorageMemory: true, StorageRedis: true, StorageSQLite: true}
)

// Validate reports every violation at once
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("server.grpc_port", c.Server.GRPCPort, 1, 65535, vb)
	if c.Server.ShutdownTimeout <= 0 {
		vb.Fieldf("server.shutdown_timeout", "must be positive, got %s", c.Server.ShutdownTimeout)
	}

	if !validBackends[c.Storage.Backend] {
		vb.Fieldf("storage.backend", "must be one of [memory, redis, sqlite], got %q", c.Storage.Backend)
	}
	switch c.Storage.Backend {
	case StorageRedis:
		errors.ValidateRequired("storage.redis.endpoint", c.Storage.Redis.Endpoint, vb)
		if c.Storage.Redis.PoolSize < 0 {
			vb.Fieldf("storage.redis.pool_size", "must not be negative, got %d", c.Storage.Redis.PoolSize)
		}
	case StorageSQLite:
		errors.ValidateRequired("storage.sqlite.path", c.Storage.SQLite.Path, vb)
	}

	if !validLevels[c.Logging.Level] {
		vb.Fieldf("logging.level", "must be one of [debug, info, warn, error], got %q", c.Logging.Level)
	}
	if !validFormats[c.Logging.Format] {
		vb.Fieldf("logging.format", "must be one of [json, console], got %q", c.Logging.Format)
	}

	if c.Progression.SessionTTL <= 0 {
		vb.Fieldf("progression.session_ttl", "must be positive, got %s", c.Progression.SessionTTL)
	}

	if c.Spells.CatalogEnabled {
		errors.ValidateRequired("spells.base_url", c.Spells.BaseURL, vb)
	}
	if c.Spells.HTTPTimeout < 0 {
		vb.Fieldf("spells.http_timeout", "must not be negative, got %s", c.Spells.HTTPTimeout)
	}
	if c.Spells.CacheTTL < 0 {
		vb.Fieldf("spells.cache_ttl", "must not be negative, got %s", c.Spells.CacheTTL)
	}

	return vb.Build()
}

// New returns a viper instance with defaults and environment overrides set up.
// Callers may bind flags into it before calling FromViper.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads the optional file at path, applies environment overrides and
// validates the result. An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read config file")
		}
	}
	return FromViper(v)
}

// FromViper builds a validated Config from a configured viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("storage.backend", StorageMemory)
	v.SetDefault("storage.redis.endpoint", "localhost:6379")
	v.SetDefault("storage.redis.pool_size", 10)
	v.SetDefault("storage.redis.max_retries", 3)
	v.SetDefault("storage.redis.use_tls", false)
	v.SetDefault("storage.redis.ping_timeout", "5s")
	v.SetDefault("storage.sqlite.path", "progression.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("rules.homebrew_dir", "")

	v.SetDefault("progression.session_ttl", "30m")

	v.SetDefault("spells.catalog_enabled", false)
	v.SetDefault("spells.base_url", "https://www.dnd5eapi.co/api/2014/")
	v.SetDefault("spells.http_timeout", "30s")
	v.SetDefault("spells.cache_ttl", "24h")
}

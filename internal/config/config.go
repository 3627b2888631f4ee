package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transport modes and document drivers.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Query     QueryConfig     `yaml:"query"`
	Relation  RelationConfig  `yaml:"relation"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the MCP surface is served: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// DBConfig selects the document backend: "sqlite" or "memory".
type DBConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	// Seed loads the sample data on start.
	Seed bool `yaml:"seed"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// AuthConfig gates the HTTP transport. An empty token disables the check.
type AuthConfig struct {
	Token string `yaml:"token"`
}

type QueryConfig struct {
	// AllLabel is the category that disables filtering.
	AllLabel string `yaml:"all_label"`
}

type RelationConfig struct {
	MaxConcurrentLookups int `yaml:"max_concurrent_lookups"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
		},
		DB: DBConfig{
			Driver: DriverSQLite,
			Path:   "workboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Query: QueryConfig{
			AllLabel: "Tất cả",
		},
		Relation: RelationConfig{
			MaxConcurrentLookups: 8,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("WORKBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("WORKBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("WORKBOARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORKBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("WORKBOARD_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if driver := os.Getenv("WORKBOARD_DB_DRIVER"); driver != "" {
		cfg.DB.Driver = driver
	}
	if dbPath := os.Getenv("WORKBOARD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if seedStr := os.Getenv("WORKBOARD_DB_SEED"); seedStr != "" {
		seed, err := strconv.ParseBool(seedStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORKBOARD_DB_SEED: %w", err)
		}
		cfg.DB.Seed = seed
	}
	if level := os.Getenv("WORKBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if token := os.Getenv("WORKBOARD_AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}
	if label := os.Getenv("WORKBOARD_QUERY_ALL_LABEL"); label != "" {
		cfg.Query.AllLabel = label
	}
	if limitStr := os.Getenv("WORKBOARD_RELATION_MAX_CONCURRENT_LOOKUPS"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORKBOARD_RELATION_MAX_CONCURRENT_LOOKUPS: %w", err)
		}
		cfg.Relation.MaxConcurrentLookups = limit
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unusable settings.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.DB.Driver {
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("invalid db driver %q", c.DB.Driver)
	}
	if c.DB.Driver == DriverSQLite && strings.TrimSpace(c.DB.Path) == "" {
		return fmt.Errorf("db path is required for sqlite")
	}
	if c.Relation.MaxConcurrentLookups < 1 {
		return fmt.Errorf("relation.max_concurrent_lookups must be positive")
	}
	return nil
}

// SlogLevel maps the configured level name to a slog level. Unknown names
// fall back to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

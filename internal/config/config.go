package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Limits    LimitsConfig    `yaml:"limits"`
	Log       LogConfig       `yaml:"log"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"WATERTRACK_TRANSPORT"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"WATERTRACK_SERVER_HOST"`
	Port int    `yaml:"port" env:"WATERTRACK_SERVER_PORT"`
}

// DataConfig locates the data file and the activity journal. An empty path
// keeps that part of the state in memory.
type DataConfig struct {
	Path         string `yaml:"path" env:"WATERTRACK_DATA_PATH"`
	ActivityPath string `yaml:"activity_path" env:"WATERTRACK_ACTIVITY_PATH"`
}

// LimitsConfig bounds intake volumes in milliliters. Zero disables a limit.
type LimitsConfig struct {
	MaxSingleIntakeML int `yaml:"max_single_intake_ml" env:"WATERTRACK_MAX_SINGLE_INTAKE_ML"`
	MaxDailyML        int `yaml:"max_daily_ml" env:"WATERTRACK_MAX_DAILY_ML"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"WATERTRACK_LOG_LEVEL"`
	Path  string `yaml:"path" env:"WATERTRACK_LOG_PATH"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Transport: TransportConfig{
			Mode: TransportStdio,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Data: DataConfig{
			Path:         "watertracker.json",
			ActivityPath: "watertracker.activity.jsonl",
		},
		Limits: LimitsConfig{
			MaxSingleIntakeML: 2000,
			MaxDailyML:        8000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// Environment variables win over the file.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("WATERTRACK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Transport.Mode = strings.ToLower(strings.TrimSpace(cfg.Transport.Mode))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q: must be stdio or http", c.Transport.Mode)
	}
	if c.Transport.Mode == TransportHTTP && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Limits.MaxSingleIntakeML < 0 || c.Limits.MaxDailyML < 0 {
		return fmt.Errorf("intake limits cannot be negative")
	}
	if _, ok := logLevels[c.Log.Level]; !ok {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	if level, ok := logLevels[c.Level]; ok {
		return level
	}
	return slog.LevelInfo
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

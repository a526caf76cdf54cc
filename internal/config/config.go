package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Log     LogConfig     `yaml:"log"`
	Tracker TrackerConfig `yaml:"tracker"`
	Auth    AuthConfig    `yaml:"auth"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TrackerConfig struct {
	// WeeklyCap is the check-in saturation ceiling per subject per week.
	WeeklyCap int `yaml:"weekly_cap"`
	// PlaceholderSubject fills an otherwise empty roster.
	PlaceholderSubject string `yaml:"placeholder_subject"`
}

type AuthConfig struct {
	// Enabled switches bearer-token auth; when off the X-Tally-Owner
	// header names the tenant.
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "tallysheet.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracker: TrackerConfig{
			WeeklyCap:          5,
			PlaceholderSubject: "Student 1",
		},
		Auth: AuthConfig{
			Enabled: false,
		},
	}

	if path := os.Getenv("TALLYSHEET_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TALLYSHEET_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TALLYSHEET_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TALLYSHEET_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TALLYSHEET_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TALLYSHEET_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if capStr := os.Getenv("TALLYSHEET_WEEKLY_CAP"); capStr != "" {
		cap, err := strconv.Atoi(capStr)
		if err != nil || cap <= 0 {
			return Config{}, fmt.Errorf("invalid TALLYSHEET_WEEKLY_CAP: %q", capStr)
		}
		cfg.Tracker.WeeklyCap = cap
	}
	if placeholder := os.Getenv("TALLYSHEET_PLACEHOLDER_SUBJECT"); placeholder != "" {
		cfg.Tracker.PlaceholderSubject = placeholder
	}
	if enabledStr := os.Getenv("TALLYSHEET_AUTH_ENABLED"); enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TALLYSHEET_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}

	return cfg, nil
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

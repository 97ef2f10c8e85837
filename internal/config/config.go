// Package config loads shopbot configuration from a YAML file and the
// environment, and sets up logging.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Backend API
	APIBaseURL     string        `yaml:"api_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Local state database (auth token, user record, session token)
	StatePath string `yaml:"state_path"`

	// Logging. An empty LogFile means stderr-only.
	LogFile      string     `yaml:"log_file"`
	LogLevelName string     `yaml:"log_level"`
	LogLevel     slog.Level `yaml:"-"`
}

// Load builds the configuration: defaults, then the optional config file at
// ~/.config/shopbot/config.yaml, then environment variables. Later layers win.
func Load() Config {
	cfg := Config{
		APIBaseURL:     "http://localhost:5000/api",
		RequestTimeout: 60 * time.Second,
		StatePath:      defaultStatePath(),
		LogFile:        "/tmp/shopbot.log",
		LogLevelName:   "INFO",
	}

	if path := configFilePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			// A malformed config file falls back to defaults rather than
			// aborting startup.
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	cfg.APIBaseURL = getEnv("SHOPBOT_API_URL", cfg.APIBaseURL)
	cfg.StatePath = getEnv("SHOPBOT_STATE_PATH", cfg.StatePath)
	cfg.LogFile = getEnv("SHOPBOT_LOG_FILE", cfg.LogFile)
	cfg.LogLevelName = getEnv("SHOPBOT_LOG_LEVEL", cfg.LogLevelName)
	if t := os.Getenv("SHOPBOT_REQUEST_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.RequestTimeout = d
		}
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return cfg
}

func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shopbot", "config.yaml")
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shopbot-state.db"
	}
	return filepath.Join(home, ".local", "state", "shopbot", "state.db")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

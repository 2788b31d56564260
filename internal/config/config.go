package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	APIURL        string `yaml:"api_url" json:"api_url"`               // Backend base URL
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// Notifications
	NotifyTTL          time.Duration `yaml:"notify_ttl" json:"notify_ttl"`                     // How long a notification stays visible
	NotifyLimit        int           `yaml:"notify_limit" json:"notify_limit"`                 // Max visible notifications
	DeadlineWindowDays int           `yaml:"deadline_window_days" json:"deadline_window_days"` // Warn when a deadline is this close

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns ~/.jato
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".jato"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "jato.log")
	}

	return &Config{
		APIURL:             "http://localhost:8000",
		ConfirmDelete:      true,
		NotifyTTL:          5 * time.Second,
		NotifyLimit:        5,
		DeadlineWindowDays: 7,
		LogLevel:           "INFO",
		LogFile:            logPath,
		LogConsole:         false,
	}
}

// Load reads ~/.jato/config.yaml over the defaults, then applies .env and
// environment overrides
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.APIURL = getEnv("JATO_API_URL", c.APIURL)
	c.LogLevel = getEnv("JATO_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("JATO_LOG_FILE", c.LogFile)
	if v := os.Getenv("JATO_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true"
	}
	if v := os.Getenv("JATO_NOTIFY_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.NotifyTTL = d
		}
	}
	if v := os.Getenv("JATO_DEADLINE_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DeadlineWindowDays = n
		}
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Save writes the config to ~/.jato/config.yaml
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

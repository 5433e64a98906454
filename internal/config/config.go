package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
)

// Environment variables that override the config file.
const (
	EnvDBPath      = "PRECON_DB_PATH"
	EnvPort        = "PRECON_PORT"
	EnvScryfallURL = "PRECON_SCRYFALL_URL"
	EnvLogLevel    = "PRECON_LOG_LEVEL"
)

// Config represents the application configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Ingest   IngestConfig   `toml:"ingest"`
	Scryfall ScryfallConfig `toml:"scryfall"`
	Server   ServerConfig   `toml:"server"`
	App      AppConfig      `toml:"app"`
}

// DatabaseConfig contains store settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`         // SQLite database file
	BusyTimeout string `toml:"busy_timeout"` // e.g. "5s"
}

// IngestConfig contains ingestion inputs.
type IngestConfig struct {
	SetList     string `toml:"set_list"`     // newline-delimited set codes
	TagList     string `toml:"tag_list"`     // newline-delimited tag specs
	DecklistDir string `toml:"decklist_dir"` // one <deck>.txt per deck
}

// ScryfallConfig contains card API settings.
type ScryfallConfig struct {
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	Timeout           string  `toml:"timeout"` // e.g. "30s"
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ServerConfig contains dashboard settings.
type ServerConfig struct {
	Port        int    `toml:"port"`
	OpenBrowser bool   `toml:"open_browser"`
	ReportDir   string `toml:"report_dir"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool   `toml:"debug_mode"` // Enable development logging
	LogLevel  string `toml:"log_level"`  // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "precon.db",
			BusyTimeout: "5s",
		},
		Ingest: IngestConfig{
			SetList:     "set_list.txt",
			TagList:     "tag_list.txt",
			DecklistDir: "decklists",
		},
		Scryfall: ScryfallConfig{
			BaseURL:           "https://api.scryfall.com",
			UserAgent:         "precon-stats/1.0",
			Timeout:           "30s",
			RequestsPerSecond: 10,
		},
		Server: ServerConfig{
			Port:      8080,
			ReportDir: "reports",
		},
		App: AppConfig{
			DebugMode: false,
			LogLevel:  "info",
		},
	}
}

// DefaultPath returns ~/.precon-stats/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".precon-stats", "config.toml"), nil
}

// Load reads the configuration at path, or at DefaultPath when path is empty.
// A missing file yields the defaults. A .env file in the working directory is
// loaded first and PRECON_* variables override the file.
func Load(path string) (*Config, error) {
	// A missing .env is fine; the real environment still applies.
	_ = godotenv.Load()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvScryfallURL); v != "" {
		c.Scryfall.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	return nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if _, err := time.ParseDuration(c.Database.BusyTimeout); err != nil {
		return fmt.Errorf("invalid busy timeout %q: %w", c.Database.BusyTimeout, err)
	}

	if _, err := time.ParseDuration(c.Scryfall.Timeout); err != nil {
		return fmt.Errorf("invalid scryfall timeout %q: %w", c.Scryfall.Timeout, err)
	}
	if c.Scryfall.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative: %v", c.Scryfall.RequestsPerSecond)
	}
	if c.Scryfall.BaseURL == "" {
		return fmt.Errorf("scryfall base URL cannot be empty")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if _, err := zapcore.ParseLevel(c.App.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.App.LogLevel, err)
	}

	return nil
}

// GetBusyTimeout returns the database busy timeout as a duration.
func (c *Config) GetBusyTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Database.BusyTimeout)
}

// GetScryfallTimeout returns the HTTP timeout as a duration.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.Timeout)
}

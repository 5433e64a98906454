package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDBPath, EnvPort, EnvScryfallURL, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	config, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
path = "/data/precon.db"

[ingest]
decklist_dir = "/data/decklists"

[server]
port = 9000
open_browser = true

[app]
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/precon.db", config.Database.Path)
	assert.Equal(t, "/data/decklists", config.Ingest.DecklistDir)
	assert.Equal(t, 9000, config.Server.Port)
	assert.True(t, config.Server.OpenBrowser)
	assert.Equal(t, "debug", config.App.LogLevel)

	// Unset keys keep their defaults.
	assert.Equal(t, "set_list.txt", config.Ingest.SetList)
	assert.Equal(t, "https://api.scryfall.com", config.Scryfall.BaseURL)
}

func TestLoadInvalidTOML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDBPath, "/env/precon.db")
	t.Setenv(EnvPort, "7070")
	t.Setenv(EnvScryfallURL, "http://localhost:1234")
	t.Setenv(EnvLogLevel, "warn")

	config, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/env/precon.db", config.Database.Path)
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "http://localhost:1234", config.Scryfall.BaseURL)
	assert.Equal(t, "warn", config.App.LogLevel)
}

func TestEnvPortInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "eighty")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	config := DefaultConfig()
	config.Server.Port = 8181
	config.Ingest.TagList = "tags.txt"
	require.NoError(t, config.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"bad busy timeout", func(c *Config) { c.Database.BusyTimeout = "soon" }},
		{"bad scryfall timeout", func(c *Config) { c.Scryfall.Timeout = "10" }},
		{"negative rate", func(c *Config) { c.Scryfall.RequestsPerSecond = -1 }},
		{"empty base url", func(c *Config) { c.Scryfall.BaseURL = "" }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.App.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestDurations(t *testing.T) {
	config := DefaultConfig()

	busy, err := config.GetBusyTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, busy)

	timeout, err := config.GetScryfallTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

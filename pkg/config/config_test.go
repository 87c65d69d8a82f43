package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Storage.DBPath = "./data/test.db"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"invalid port - too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty host", func(c *Config) { c.Server.Host = "" }, true},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, true},
		{"unsupported locale", func(c *Config) { c.Cron.Locale = "fr" }, true},
		{"english locale", func(c *Config) { c.Cron.Locale = "en" }, false},
		{"zero preview count", func(c *Config) { c.Cron.PreviewCount = 0 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DATACRON_HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, 7130, cfg.Server.Port)
	assert.Equal(t, "zh", cfg.Cron.Locale)
	assert.Equal(t, 5, cfg.Cron.PreviewCount)
	assert.Equal(t, filepath.Join(home, "data", "datacron.db"), cfg.Storage.DBPath)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datacron.toml")
	content := `
[server]
port = 9000
host = "127.0.0.1"

[cron]
locale = "en"
preview_count = 10

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Home)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "en", cfg.Cron.Locale)
	assert.Equal(t, 10, cfg.Cron.PreviewCount)
	assert.Equal(t, "debug", cfg.Log.Level)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "en", string(catalog.Locale()))
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DATACRON_HOME", t.TempDir())
	t.Setenv("DATACRON_SERVER_PORT", "8181")
	t.Setenv("DATACRON_CRON_LOCALE", "en")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "en", cfg.Cron.Locale)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datacron.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cron]\nlocale = \"xx\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTOMLRoundTrip(t *testing.T) {
	c := Default()
	out, err := c.TOML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "[server]")
	assert.Contains(t, string(out), "preview_count = 5")

	path := filepath.Join(t.TempDir(), "datacron.toml")
	require.NoError(t, os.WriteFile(path, out, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Server, loaded.Server)
	assert.Equal(t, c.Cron, loaded.Cron)
	assert.Equal(t, c.Log, loaded.Log)
}

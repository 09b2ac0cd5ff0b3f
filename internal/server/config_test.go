package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rps.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadServerConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
		require.NoError(t, err)
		assert.Equal(t, DefaultServerConfig(), cfg)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	})

	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

game {
  think_delay  = "1s"
  reveal_delay = "250ms"
  seed         = 42
}
`)
		cfg, err := LoadServerConfig(path)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
		assert.Equal(t, "debug", cfg.Server.LogLevel)
		assert.Equal(t, int64(42), cfg.Game.Seed)

		sc, err := cfg.SessionConfig()
		require.NoError(t, err)
		assert.Equal(t, time.Second, sc.ThinkDelay)
		assert.Equal(t, 250*time.Millisecond, sc.RevealDelay)
	})

	t.Run("defaults fill gaps", func(t *testing.T) {
		path := writeConfig(t, `
server {
  port = 8181
}
`)
		cfg, err := LoadServerConfig(path)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "localhost:8181", cfg.GetServerAddress())
		assert.Equal(t, "info", cfg.Server.LogLevel)
		require.NotNil(t, cfg.Game)
		assert.Equal(t, "3s", cfg.Game.ThinkDelay)
		assert.Equal(t, "500ms", cfg.Game.RevealDelay)
	})

	t.Run("bundled example", func(t *testing.T) {
		cfg, err := LoadServerConfig(filepath.Join("..", "..", "examples", "rps.hcl"))
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
		assert.Zero(t, cfg.Game.Seed)
	})

	t.Run("syntax errors are reported", func(t *testing.T) {
		path := writeConfig(t, `server { port = `)
		_, err := LoadServerConfig(path)
		assert.Error(t, err)
	})
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"port too low", func(c *ServerConfig) { c.Server.Port = 0 }},
		{"port too high", func(c *ServerConfig) { c.Server.Port = 70000 }},
		{"bad log level", func(c *ServerConfig) { c.Server.LogLevel = "loud" }},
		{"bad think delay", func(c *ServerConfig) { c.Game.ThinkDelay = "soon" }},
		{"bad reveal delay", func(c *ServerConfig) { c.Game.RevealDelay = "later" }},
		{"negative delay", func(c *ServerConfig) { c.Game.ThinkDelay = "-1s" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

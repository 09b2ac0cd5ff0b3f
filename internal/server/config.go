package server

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/rockpaperscissors/internal/session"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   *GameSettings  `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings controls the round timing of every session the server hosts
type GameSettings struct {
	ThinkDelay  string `hcl:"think_delay,optional"`
	RevealDelay string `hcl:"reveal_delay,optional"`
	Seed        int64  `hcl:"seed,optional"` // 0 means seed from the clock
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: &GameSettings{
			ThinkDelay:  "3s",
			RevealDelay: "500ms",
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *ServerConfig) applyDefaults() {
	defaults := DefaultServerConfig()

	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}

	if c.Game == nil {
		c.Game = defaults.Game
		return
	}
	if c.Game.ThinkDelay == "" {
		c.Game.ThinkDelay = defaults.Game.ThinkDelay
	}
	if c.Game.RevealDelay == "" {
		c.Game.RevealDelay = defaults.Game.RevealDelay
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}

	if _, err := c.SessionConfig(); err != nil {
		return err
	}

	return nil
}

// SessionConfig converts the game block into round timings
func (c *ServerConfig) SessionConfig() (session.Config, error) {
	cfg := session.DefaultConfig()
	if c.Game == nil {
		return cfg, nil
	}

	think, err := time.ParseDuration(c.Game.ThinkDelay)
	if err != nil {
		return cfg, fmt.Errorf("invalid think_delay: %w", err)
	}
	reveal, err := time.ParseDuration(c.Game.RevealDelay)
	if err != nil {
		return cfg, fmt.Errorf("invalid reveal_delay: %w", err)
	}
	if think < 0 || reveal < 0 {
		return cfg, fmt.Errorf("delays must not be negative")
	}

	cfg.ThinkDelay = think
	cfg.RevealDelay = reveal
	return cfg, nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

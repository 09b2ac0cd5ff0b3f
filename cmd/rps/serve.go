package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/rockpaperscissors/cmd/rps/shared"
	"github.com/lox/rockpaperscissors/internal/randutil"
	"github.com/lox/rockpaperscissors/internal/server"
)

// ServeCmd runs the browser game server
type ServeCmd struct {
	Config   string `short:"c" default:"rps.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" env:"RPS_ADDR" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" env:"RPS_LOG_LEVEL" help:"Log level (overrides config)"`
	Seed     *int64 `env:"RPS_SEED" help:"Deterministic RNG seed for computer moves (overrides config)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Apply command line overrides
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Seed == nil && cfg.Game.Seed != 0 {
		c.Seed = &cfg.Game.Seed
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	sessionCfg, _ := cfg.SessionConfig()

	logger, err := shared.SetupLogger(os.Stderr, cfg.Server.LogLevel)
	if err != nil {
		return err
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	seed, _ := randutil.FromFlag(c.Seed)
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		logger.Info("Using random seed", "seed", seed)
	}

	s := server.NewServer(addr, logger,
		server.WithSessionConfig(sessionCfg),
		server.WithSeed(seed),
	)

	logger.Info("Starting Rock Paper Scissors server",
		"addr", addr,
		"think_delay", sessionCfg.ThinkDelay,
		"reveal_delay", sessionCfg.RevealDelay)

	ctx := shared.SetupSignalHandler(logger)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(s.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/rockpaperscissors/cmd/rps/shared"
	"github.com/lox/rockpaperscissors/internal/randutil"
	"github.com/lox/rockpaperscissors/internal/session"
	"github.com/lox/rockpaperscissors/internal/tui"
)

// PlayCmd runs a local game in the terminal
type PlayCmd struct {
	Seed        *int64        `help:"Deterministic RNG seed for computer moves (optional)"`
	ThinkDelay  time.Duration `default:"3s" help:"How long the computer deliberates"`
	RevealDelay time.Duration `default:"500ms" help:"How long the reveal animation runs"`
	LogFile     string        `default:"rps-play.log" help:"Debug log file"`
	LogLevel    string        `default:"info" help:"Log level"`
}

func (c *PlayCmd) Run() error {
	logger, f, err := shared.SetupFileLogger(c.LogFile, c.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	seed, rng := randutil.FromFlag(c.Seed)
	logger.Info("Starting local game", "seed", seed)

	bridge := tui.NewBridge()
	ctrl := session.NewController(bridge.Presenter(), logger,
		session.WithRandomSource(rng),
		session.WithConfig(session.Config{
			ThinkDelay:  c.ThinkDelay,
			RevealDelay: c.RevealDelay,
		}),
		session.WithRoundHook(bridge.Round),
	)
	defer ctrl.Stop()

	p := tea.NewProgram(tui.NewModel(ctrl, logger), tea.WithAltScreen())
	bridge.Attach(p)

	_, err = p.Run()
	logger.Info("Game over", "score", ctrl.Score())
	return err
}

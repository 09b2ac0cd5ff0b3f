package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/rockpaperscissors/cmd/rps/shared"
	"github.com/lox/rockpaperscissors/internal/client"
	"github.com/lox/rockpaperscissors/internal/server"
	"github.com/lox/rockpaperscissors/internal/tui"
)

// ConnectCmd plays a server-hosted session in the terminal
type ConnectCmd struct {
	Server   string `default:"http://localhost:8080" env:"RPS_SERVER" help:"Server URL"`
	LogFile  string `default:"rps-connect.log" help:"Debug log file"`
	LogLevel string `default:"info" help:"Log level"`
}

func (c *ConnectCmd) Run() error {
	logger, f, err := shared.SetupFileLogger(c.LogFile, c.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	bridge := tui.NewBridge()
	cl := client.NewClient(c.Server, logger)
	cl.OnDisplay(bridge.Display)
	cl.OnRound(bridge.Round)
	cl.OnError(func(e server.ErrorData) { bridge.Error(e.Message) })

	p := tea.NewProgram(tui.NewModel(cl, logger), tea.WithAltScreen())
	bridge.Attach(p)

	if err := cl.Connect(); err != nil {
		return err
	}
	defer func() { _ = cl.Disconnect() }()

	go func() {
		<-cl.Done()
		bridge.Quit()
	}()

	_, err = p.Run()
	return err
}

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/rockpaperscissors/internal/session"
)

// Sender is satisfied by *tea.Program
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards session output into a running program. Messages sent
// before Attach are dropped; the model starts from the initial display.
type Bridge struct {
	mu     sync.RWMutex
	sender Sender
}

// NewBridge creates an unattached bridge
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach sets the program that receives messages
func (b *Bridge) Attach(s Sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sender = s
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	s := b.sender
	b.mu.RUnlock()

	if s != nil {
		s.Send(msg)
	}
}

// Presenter returns a session presenter that publishes every flushed
// snapshot to the program
func (b *Bridge) Presenter() *session.Recorder {
	return session.NewRecorder(b.Display)
}

// Display forwards a display snapshot
func (b *Bridge) Display(d session.Display) {
	b.send(DisplayMsg(d))
}

// Round forwards a resolved round
func (b *Bridge) Round(r session.Round) {
	b.send(RoundMsg(r))
}

// Error forwards an error message
func (b *Bridge) Error(text string) {
	b.send(ErrorMsg{Text: text})
}

// Quit asks the program to exit
func (b *Bridge) Quit() {
	b.send(QuitMsg{})
}

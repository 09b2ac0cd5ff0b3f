package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/rockpaperscissors/internal/game"
	"github.com/lox/rockpaperscissors/internal/session"
	"github.com/lox/rockpaperscissors/internal/statistics"
)

// DisplayMsg carries a new snapshot of the game display
type DisplayMsg session.Display

// RoundMsg reports a resolved round for the history pane
type RoundMsg session.Round

// ErrorMsg reports a problem that should be shown to the player
type ErrorMsg struct {
	Text string
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// Model is the Bubble Tea model for a game session. It only renders the
// snapshots it is sent; every player input is forwarded to actions.
type Model struct {
	actions session.Actions
	logger  *log.Logger

	// UI components
	history viewport.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	// State
	display  session.Display
	lines    []string
	stats    statistics.Statistics
	quitting bool

	// Dimensions
	width  int
	height int
}

// NewModel creates a model that sends player input to actions
func NewModel(actions session.Actions, logger *log.Logger) *Model {
	// Sized properly when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	return &Model{
		actions: actions,
		logger:  logger.WithPrefix("tui"),
		history: vp,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(ThinkingStyle),
		),
		help:    help.New(),
		keys:    defaultKeyMap(),
		display: session.InitialDisplay(),
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeHistory()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case DisplayMsg:
		wasThinking := m.display.Phase == session.Thinking
		m.display = session.Display(msg)
		if m.display.Phase == session.Thinking && !wasThinking {
			return m, m.spinner.Tick
		}
		return m, nil

	case RoundMsg:
		r := session.Round(msg)
		m.stats.Add(r.Player, r.Computer, r.Verdict)
		m.addHistory(formatRound(r))
		return m, nil

	case ErrorMsg:
		m.addHistory(ErrorStyle.Render(msg.Text))
		return m, nil

	case spinner.TickMsg:
		// Dropping the tick stops the animation once the reveal arrives
		if m.display.Phase != session.Thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reset):
		m.stats = statistics.Statistics{}
		if len(m.lines) > 0 {
			m.addHistory(InfoStyle.Render("New game"))
		}
		return m, m.act(func() { m.actions.Reset() })

	case key.Matches(msg, m.keys.Rock, m.keys.Paper, m.keys.Scissors):
		if !m.display.ChoicesEnabled {
			m.logger.Debug("Ignoring key while round in progress", "key", msg.String())
			return m, nil
		}
		r, _ := utf8.DecodeRuneInString(msg.String())
		return m, m.act(func() { m.actions.PressKey(r) })
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// act runs fn off the event loop. The session pushes its display back
// through Program.Send, which must not be called from inside Update.
func (m *Model) act(fn func()) tea.Cmd {
	if m.actions == nil {
		return nil
	}
	return func() tea.Msg {
		fn()
		return nil
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Rock Paper Scissors"))
	b.WriteString("\n\n")
	b.WriteString(ScoreStyle.Render(fmt.Sprintf("You %d : %d Computer", m.display.PlayerScore, m.display.ComputerScore)))
	b.WriteString("\n\n")
	b.WriteString(m.renderComputer())
	b.WriteString("\n")

	if m.display.ResultText != "" {
		b.WriteString(m.renderResult())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderChoices())
	b.WriteString("\n\n")

	if m.stats.Rounds > 0 {
		b.WriteString(InfoStyle.Render(m.stats.Summary()))
		b.WriteString("\n")
	}

	if len(m.lines) > 0 && m.width > 0 {
		b.WriteString(HistoryStyle.Render(m.history.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderComputer() string {
	style := GlyphStyle
	if m.display.ComputerAnimation == session.AnimationReveal {
		style = RevealStyle
	}
	glyph := style.Render(m.display.ComputerGlyph)

	label := m.display.ComputerLabel
	if m.display.Phase == session.Thinking {
		label = m.spinner.View() + " " + label
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, glyph, "  ", InfoStyle.Render(label))
}

func (m *Model) renderResult() string {
	text := m.display.ResultText
	switch {
	case text == session.ErrorText:
		return ErrorStyle.Render(text)
	case strings.HasPrefix(text, "You win"):
		return SuccessStyle.Render(text)
	case strings.HasPrefix(text, "You lose"):
		return ErrorStyle.Render(text)
	default:
		return WarningStyle.Render(text)
	}
}

func (m *Model) renderChoices() string {
	style := ChoiceStyle
	if !m.display.ChoicesEnabled {
		style = DisabledStyle
	}

	buttons := make([]string, 0, len(game.Choices))
	for _, c := range game.Choices {
		buttons = append(buttons, style.Render(fmt.Sprintf("[%c] %s %s", c.Key(), c.Glyph(), c)))
	}
	return strings.Join(buttons, "  ")
}

func (m *Model) resizeHistory() {
	width := m.width - 2
	height := m.height - 16 // header, score, glyph, result, choices, help and borders
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	m.history.Width = width
	m.history.Height = height
	m.history.GotoBottom()
}

func (m *Model) addHistory(line string) {
	m.lines = append(m.lines, line)
	m.history.SetContent(strings.Join(m.lines, "\n"))
	m.history.GotoBottom()
}

func formatRound(r session.Round) string {
	return fmt.Sprintf("#%d  %s %s vs %s %s  %s  (%d-%d)",
		r.Number,
		r.Player.Glyph(), r.Player,
		r.Computer.Glyph(), r.Computer,
		game.ResultText(r.Player, r.Computer, r.Verdict),
		r.Score.Player, r.Score.Computer)
}

// History returns the round history lines, oldest first
func (m *Model) History() []string {
	result := make([]string, len(m.lines))
	copy(result, m.lines)
	return result
}

// Stats returns the statistics for rounds since the last reset
func (m *Model) Stats() statistics.Statistics {
	return m.stats
}

// Display returns the snapshot currently being rendered
func (m *Model) Display() session.Display {
	return m.display
}

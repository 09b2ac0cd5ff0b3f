package tui

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/rockpaperscissors/internal/game"
	"github.com/lox/rockpaperscissors/internal/session"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type fakeActions struct {
	mu     sync.Mutex
	keys   []rune
	resets int
}

func (f *fakeActions) Play(game.Choice) bool { return true }

func (f *fakeActions) PressKey(r rune) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, r)
	return true
}

func (f *fakeActions) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// drain feeds everything sent so far into the model.
func (r *recordingSender) drain(m *Model) {
	r.mu.Lock()
	msgs := r.msgs
	r.msgs = nil
	r.mu.Unlock()

	for _, msg := range msgs {
		m.Update(msg)
	}
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func thinkingDisplay() session.Display {
	d := session.InitialDisplay()
	d.Phase = session.Thinking
	d.ChoicesEnabled = false
	d.ComputerGlyph = game.GlyphThinking
	d.ComputerAnimation = session.AnimationThinking
	d.ComputerLabel = session.LabelThinking
	return d
}

func TestModelForwardsKeys(t *testing.T) {
	actions := &fakeActions{}
	m := NewModel(actions, quietLogger())

	_, cmd := m.Update(runeKey('r'))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	_, cmd = m.Update(runeKey('S'))
	require.NotNil(t, cmd)
	cmd()

	_, cmd = m.Update(runeKey('n'))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []rune{'r', 'S'}, actions.keys)
	assert.Equal(t, 1, actions.resets)
}

func TestModelIgnoresChoicesWhileThinking(t *testing.T) {
	actions := &fakeActions{}
	m := NewModel(actions, quietLogger())

	_, cmd := m.Update(DisplayMsg(thinkingDisplay()))
	assert.NotNil(t, cmd, "entering thinking starts the spinner")

	_, cmd = m.Update(runeKey('p'))
	assert.Nil(t, cmd)
	assert.Empty(t, actions.keys)

	// Reset is always available
	_, cmd = m.Update(runeKey('n'))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, actions.resets)
}

func TestModelView(t *testing.T) {
	m := NewModel(&fakeActions{}, quietLogger())

	view := m.View()
	assert.Contains(t, view, "You 0 : 0 Computer")
	assert.Contains(t, view, game.GlyphUnknown)
	assert.Contains(t, view, session.LabelWaiting)
	assert.Contains(t, view, "[r] 🪨 rock")
	assert.Contains(t, view, "[s] ✂️ scissors")

	m.Update(DisplayMsg(thinkingDisplay()))
	view = m.View()
	assert.Contains(t, view, game.GlyphThinking)
	assert.Contains(t, view, session.LabelThinking)

	revealed := thinkingDisplay()
	revealed.Phase = session.Revealed
	revealed.ComputerGlyph = game.Paper.Glyph()
	revealed.ComputerAnimation = session.AnimationReveal
	revealed.ComputerLabel = session.LabelChose(game.Paper)
	revealed.ResultText = "You win! scissors beats paper."
	revealed.PlayerScore = 1
	m.Update(DisplayMsg(revealed))

	view = m.View()
	assert.Contains(t, view, "You 1 : 0 Computer")
	assert.Contains(t, view, "Computer chose paper")
	assert.Contains(t, view, "You win! scissors beats paper.")
}

func TestModelSpinnerStopsAfterReveal(t *testing.T) {
	m := NewModel(&fakeActions{}, quietLogger())

	_, cmd := m.Update(DisplayMsg(thinkingDisplay()))
	require.NotNil(t, cmd)
	tick := cmd()

	_, next := m.Update(tick)
	assert.NotNil(t, next, "spinner keeps ticking while thinking")

	d := thinkingDisplay()
	d.Phase = session.Revealed
	m.Update(DisplayMsg(d))

	_, next = m.Update(tick)
	assert.Nil(t, next)
}

func TestModelHistory(t *testing.T) {
	m := NewModel(&fakeActions{}, quietLogger())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	m.Update(RoundMsg(session.Round{
		Number:   1,
		Player:   game.Rock,
		Computer: game.Scissors,
		Verdict:  game.PlayerWins,
		Score:    game.Score{Player: 1},
	}))
	m.Update(ErrorMsg{Text: "connection lost"})

	history := m.History()
	require.Len(t, history, 2)
	assert.Contains(t, history[0], "You win! rock beats scissors.")
	assert.Contains(t, history[0], "(1-0)")
	assert.Equal(t, "connection lost", history[1])
	assert.Contains(t, m.View(), "You win! rock beats scissors.")

	assert.Equal(t, 1, m.Stats().Wins)
	assert.Contains(t, m.View(), "Rounds 1 · W 1 L 0 D 0 · win rate 100%")

	// A new game clears the statistics but keeps the history
	m.Update(runeKey('n'))
	assert.Zero(t, m.Stats().Rounds)
	require.Len(t, m.History(), 3)
	assert.Equal(t, "New game", m.History()[2])
	assert.NotContains(t, m.View(), "Rounds 1")
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&fakeActions{}, quietLogger())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())

	m = NewModel(&fakeActions{}, quietLogger())
	_, cmd = m.Update(QuitMsg{})
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestBridgeDropsUntilAttached(t *testing.T) {
	b := NewBridge()
	b.Display(session.InitialDisplay())
	b.Round(session.Round{Number: 1})

	sender := &recordingSender{}
	b.Attach(sender)
	b.Error("boom")
	b.Quit()

	assert.Equal(t, []tea.Msg{ErrorMsg{Text: "boom"}, QuitMsg{}}, sender.msgs)
}

func TestLocalRoundThroughBridge(t *testing.T) {
	clock := quartz.NewMock(t)
	sender := &recordingSender{}

	bridge := NewBridge()
	bridge.Attach(sender)

	ctrl := session.NewController(bridge.Presenter(), quietLogger(),
		session.WithClock(clock),
		session.WithRandomSource(fixedSource(1)), // paper
		session.WithRoundHook(bridge.Round),
	)
	m := NewModel(ctrl, quietLogger())

	_, cmd := m.Update(runeKey('s'))
	require.NotNil(t, cmd)
	cmd()
	sender.drain(m)

	assert.Equal(t, session.Thinking, m.Display().Phase)
	assert.False(t, m.Display().ChoicesEnabled)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock.Advance(3 * time.Second).MustWait(ctx)
	sender.drain(m)

	assert.Equal(t, session.Revealed, m.Display().Phase)
	assert.Equal(t, "You win! scissors beats paper.", m.Display().ResultText)
	require.Len(t, m.History(), 1)

	clock.Advance(500 * time.Millisecond).MustWait(ctx)
	sender.drain(m)

	assert.Equal(t, session.Idle, m.Display().Phase)
	assert.True(t, m.Display().ChoicesEnabled)
	assert.Equal(t, game.Score{Player: 1}, ctrl.Score())
}

type fixedSource int

func (f fixedSource) IntN(int) int { return int(f) }

package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/rockpaperscissors/internal/game"
)

// Config holds the cosmetic delays of a round.
type Config struct {
	ThinkDelay  time.Duration // thinking → revealed
	RevealDelay time.Duration // revealed → idle
}

// DefaultConfig returns the standard three second deliberation and half
// second reveal animation.
func DefaultConfig() Config {
	return Config{
		ThinkDelay:  3 * time.Second,
		RevealDelay: 500 * time.Millisecond,
	}
}

// Round describes a resolved round.
type Round struct {
	Number   uint64
	Player   game.Choice
	Computer game.Choice
	Verdict  game.Verdict
	Score    game.Score
}

// Actions is what an input surface can ask of a game.
type Actions interface {
	Play(choice game.Choice) bool
	PressKey(key rune) bool
	Reset()
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the real clock, typically with quartz.NewMock in tests.
func WithClock(clock quartz.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRandomSource sets where computer moves come from.
func WithRandomSource(src game.RandomSource) Option {
	return func(c *Controller) { c.rng = src }
}

// WithConfig overrides the round delays.
func WithConfig(cfg Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// WithRoundHook registers fn to be called after every resolved round.
func WithRoundHook(fn func(Round)) Option {
	return func(c *Controller) { c.onRound = fn }
}

// Controller owns a Session and is the only thing that mutates it. Input
// events and timer callbacks are serialised on mu; quartz delivers timer
// callbacks on their own goroutine.
type Controller struct {
	mu      sync.Mutex
	session Session
	view    view
	rng     game.RandomSource
	clock   quartz.Clock
	cfg     Config
	logger  *log.Logger
	onRound func(Round)

	timer    *quartz.Timer
	gen      uint64 // bumped on every Play and Reset; stale callbacks compare against it
	rounds   uint64
	player   game.Choice
	computer game.Choice
}

var _ Actions = (*Controller)(nil)

// NewController creates a Controller in the Idle phase. presenter may be nil.
func NewController(presenter Presenter, logger *log.Logger, opts ...Option) *Controller {
	c := &Controller{
		view:   view{p: presenter},
		clock:  quartz.NewReal(),
		cfg:    DefaultConfig(),
		logger: logger.WithPrefix("session"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render pushes the full current state to the presenter.
func (c *Controller) Render() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.scores(c.session.Score())
	c.view.choicesEnabled(c.session.AcceptsInput())
	c.view.phase(c.session.Phase())
	c.view.flush()
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Phase()
}

// Score returns the current score.
func (c *Controller) Score() game.Score {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Score()
}

// Play starts a round with the player's choice. It reports whether the
// input was accepted; invalid choices and input outside Idle are dropped.
func (c *Controller) Play(choice game.Choice) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !choice.Valid() {
		c.logger.Error("Invalid player choice", "choice", choice)
		return false
	}
	if !c.session.AcceptsInput() {
		c.logger.Debug("Ignoring input", "choice", choice, "phase", c.session.Phase())
		return false
	}

	c.gen++
	gen := c.gen
	c.player = choice
	c.computer = game.RandomChoice(c.rng)
	c.session.phase = Thinking

	c.logger.Debug("Round started", "player", choice, "think", c.cfg.ThinkDelay)

	c.timer = c.clock.AfterFunc(c.cfg.ThinkDelay, func() { c.reveal(gen) }, "session", "think")

	c.view.computerChoice(game.GlyphThinking, AnimationThinking, LabelThinking)
	c.view.choicesEnabled(false)
	c.view.phase(Thinking)
	c.view.flush()
	return true
}

// PressKey plays the Choice bound to key. Unbound keys are ignored.
func (c *Controller) PressKey(key rune) bool {
	choice, ok := game.ChoiceForKey(key)
	if !ok {
		return false
	}
	return c.Play(choice)
}

// Reset cancels any pending transition, zeroes the score and returns to
// Idle regardless of the current phase.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.session.Reset()

	c.logger.Debug("Session reset")

	c.view.scores(c.session.Score())
	c.view.resultText("")
	c.view.computerChoice(game.GlyphUnknown, AnimationNone, LabelWaiting)
	c.view.choicesEnabled(true)
	c.view.phase(Idle)
	c.view.flush()
}

// Stop cancels any pending transition without touching the display. Used
// when the presenter is going away.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

// reveal runs when the think timer fires.
func (c *Controller) reveal(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.session.Phase() != Thinking {
		c.logger.Debug("Discarding stale reveal", "gen", gen, "current", c.gen)
		return
	}

	defer c.view.flush()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Round resolution failed", "error", fmt.Sprint(r))
			c.fail()
		}
	}()

	player, computer := c.player, c.computer
	c.view.computerChoice(computer.Glyph(), AnimationReveal, LabelChose(computer))

	verdict, err := game.Resolve(player, computer)
	if err != nil {
		c.logger.Error("Failed to resolve round", "error", err)
	} else {
		c.session.Apply(verdict)
	}

	c.rounds++
	round := Round{
		Number:   c.rounds,
		Player:   player,
		Computer: computer,
		Verdict:  verdict,
		Score:    c.session.Score(),
	}

	c.logger.Info("Round resolved",
		"round", round.Number,
		"player", player,
		"computer", computer,
		"verdict", verdict,
		"score", fmt.Sprintf("%d-%d", round.Score.Player, round.Score.Computer))

	c.view.scores(round.Score)
	c.view.resultText(game.ResultText(player, computer, verdict))
	c.session.phase = Revealed
	c.view.phase(Revealed)

	if c.onRound != nil {
		c.onRound(round)
	}

	c.timer = c.clock.AfterFunc(c.cfg.RevealDelay, func() { c.settle(gen) }, "session", "reveal")
}

// settle runs when the reveal animation finishes.
func (c *Controller) settle(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.session.Phase() != Revealed {
		c.logger.Debug("Discarding stale settle", "gen", gen, "current", c.gen)
		return
	}

	c.timer = nil
	c.session.phase = Idle
	c.view.computerChoice(c.computer.Glyph(), AnimationNone, LabelChose(c.computer))
	c.view.choicesEnabled(true)
	c.view.phase(Idle)
	c.view.flush()
}

// fail returns to Idle after an unexpected failure so the player can retry.
func (c *Controller) fail() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.session.phase = Idle
	c.view.resultText(ErrorText)
	c.view.computerChoice(game.GlyphUnknown, AnimationNone, LabelWaiting)
	c.view.choicesEnabled(true)
	c.view.phase(Idle)
}

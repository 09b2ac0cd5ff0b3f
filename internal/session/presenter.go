package session

import (
	"fmt"
	"sync"

	"github.com/lox/rockpaperscissors/internal/game"
)

// Animation marks the cosmetic state of the computer's glyph.
type Animation string

const (
	AnimationNone     Animation = ""
	AnimationThinking Animation = "thinking"
	AnimationReveal   Animation = "reveal"
)

// Text shown by presenters.
const (
	LabelWaiting  = "Waiting for game to start"
	LabelThinking = "Computer is thinking"
	ErrorText     = "An error occurred. Please try again."
)

// LabelChose is the accessible label of a revealed computer choice.
func LabelChose(c game.Choice) string {
	return fmt.Sprintf("Computer chose %s", c)
}

// Presenter is the display surface a Controller drives. Implementations
// must not call back into the Controller from these methods.
type Presenter interface {
	SetResultText(text string)
	SetScores(player, computer int)
	SetComputerChoice(glyph string, anim Animation, label string)
	SetChoicesEnabled(enabled bool)
}

// PhaseListener is implemented by presenters that also want phase changes.
type PhaseListener interface {
	SetPhase(p Phase)
}

// Flusher is implemented by presenters that batch updates. Flush is called
// once after each event has finished updating the display.
type Flusher interface {
	Flush()
}

// view guards every presenter call so a missing presenter is a no-op.
type view struct {
	p Presenter
}

func (v view) resultText(text string) {
	if v.p != nil {
		v.p.SetResultText(text)
	}
}

func (v view) scores(s game.Score) {
	if v.p != nil {
		v.p.SetScores(s.Player, s.Computer)
	}
}

func (v view) computerChoice(glyph string, anim Animation, label string) {
	if v.p != nil {
		v.p.SetComputerChoice(glyph, anim, label)
	}
}

func (v view) choicesEnabled(enabled bool) {
	if v.p != nil {
		v.p.SetChoicesEnabled(enabled)
	}
}

func (v view) phase(p Phase) {
	if l, ok := v.p.(PhaseListener); ok {
		l.SetPhase(p)
	}
}

func (v view) flush() {
	if f, ok := v.p.(Flusher); ok {
		f.Flush()
	}
}

// Display is a snapshot of everything a presenter shows.
type Display struct {
	ResultText        string    `json:"resultText"`
	PlayerScore       int       `json:"playerScore"`
	ComputerScore     int       `json:"computerScore"`
	ComputerGlyph     string    `json:"computerGlyph"`
	ComputerAnimation Animation `json:"computerAnimation"`
	ComputerLabel     string    `json:"computerLabel"`
	ChoicesEnabled    bool      `json:"choicesEnabled"`
	Phase             Phase     `json:"phase"`
}

// InitialDisplay is what a fresh session shows.
func InitialDisplay() Display {
	return Display{
		ComputerGlyph:  game.GlyphUnknown,
		ComputerLabel:  LabelWaiting,
		ChoicesEnabled: true,
		Phase:          Idle,
	}
}

// Recorder is a Presenter that keeps a Display and hands a copy to
// onChange every time the Controller flushes.
type Recorder struct {
	mu       sync.Mutex
	display  Display
	onChange func(Display)
}

// NewRecorder creates a Recorder starting from InitialDisplay. onChange may
// be nil.
func NewRecorder(onChange func(Display)) *Recorder {
	return &Recorder{display: InitialDisplay(), onChange: onChange}
}

func (r *Recorder) SetResultText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.ResultText = text
}

func (r *Recorder) SetScores(player, computer int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.PlayerScore = player
	r.display.ComputerScore = computer
}

func (r *Recorder) SetComputerChoice(glyph string, anim Animation, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.ComputerGlyph = glyph
	r.display.ComputerAnimation = anim
	r.display.ComputerLabel = label
}

func (r *Recorder) SetChoicesEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.ChoicesEnabled = enabled
}

func (r *Recorder) SetPhase(p Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.Phase = p
}

// Flush publishes the current snapshot.
func (r *Recorder) Flush() {
	r.mu.Lock()
	d := r.display
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(d)
	}
}

// Display returns the current snapshot.
func (r *Recorder) Display() Display {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.display
}

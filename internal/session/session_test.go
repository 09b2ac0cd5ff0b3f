package session

import (
	"encoding/json"
	"testing"

	"github.com/lox/rockpaperscissors/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	var s Session
	assert.Equal(t, Idle, s.Phase())
	assert.True(t, s.AcceptsInput())

	s.Apply(game.PlayerWins)
	s.Apply(game.PlayerWins)
	s.Apply(game.ComputerWins)
	s.Apply(game.Draw)
	assert.Equal(t, game.Score{Player: 2, Computer: 1}, s.Score())

	s.phase = Thinking
	assert.False(t, s.AcceptsInput())

	s.Reset()
	assert.Equal(t, game.Score{}, s.Score())
	assert.Equal(t, Idle, s.Phase())
}

func TestPhaseText(t *testing.T) {
	for _, p := range []Phase{Idle, Thinking, Revealed} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var parsed Phase
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, p, parsed)
	}

	var p Phase
	assert.Error(t, p.UnmarshalText([]byte("sleeping")))
	assert.Equal(t, "phase(7)", Phase(7).String())
}

func TestRecorder(t *testing.T) {
	var published []Display
	r := NewRecorder(func(d Display) { published = append(published, d) })

	assert.Equal(t, InitialDisplay(), r.Display())

	r.SetScores(3, 4)
	r.SetResultText("You win! paper beats rock.")
	r.SetComputerChoice(game.Rock.Glyph(), AnimationReveal, LabelChose(game.Rock))
	r.SetChoicesEnabled(false)
	r.SetPhase(Revealed)
	assert.Empty(t, published, "nothing is published before Flush")

	r.Flush()
	require.Len(t, published, 1)
	assert.Equal(t, Display{
		ResultText:        "You win! paper beats rock.",
		PlayerScore:       3,
		ComputerScore:     4,
		ComputerGlyph:     game.Rock.Glyph(),
		ComputerAnimation: AnimationReveal,
		ComputerLabel:     "Computer chose rock",
		ChoicesEnabled:    false,
		Phase:             Revealed,
	}, published[0])

	data, err := json.Marshal(published[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phase":"revealed"`)
	assert.Contains(t, string(data), `"computerAnimation":"reveal"`)
}

package server

import (
	"encoding/json"
	"time"

	"github.com/lox/rockpaperscissors/internal/game"
	"github.com/lox/rockpaperscissors/internal/session"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type ChooseData struct {
	Choice string `json:"choice"`
}

type KeyData struct {
	Key string `json:"key"`
}

// Server → Client Messages

type WelcomeData struct {
	SessionID string `json:"sessionId"`
}

// DisplayData is a full snapshot of what the page should show
type DisplayData = session.Display

type RoundData struct {
	Number     uint64       `json:"number"`
	Player     game.Choice  `json:"player"`
	Computer   game.Choice  `json:"computer"`
	Verdict    game.Verdict `json:"verdict"`
	Score      game.Score   `json:"score"`
	ResultText string       `json:"resultText"`
}

// RoundDataFromSession converts a resolved round for the wire
func RoundDataFromSession(r session.Round) RoundData {
	return RoundData{
		Number:     r.Number,
		Player:     r.Player,
		Computer:   r.Computer,
		Verdict:    r.Verdict,
		Score:      r.Score,
		ResultText: game.ResultText(r.Player, r.Computer, r.Verdict),
	}
}

// Round converts wire data back into a session.Round
func (d RoundData) Round() session.Round {
	return session.Round{
		Number:   d.Number,
		Player:   d.Player,
		Computer: d.Computer,
		Verdict:  d.Verdict,
		Score:    d.Score,
	}
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

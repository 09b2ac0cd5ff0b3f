package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeChoose MessageType = "choose"
	MessageTypeKey    MessageType = "key"
	MessageTypeReset  MessageType = "reset"

	// Server to client messages
	MessageTypeWelcome MessageType = "welcome"
	MessageTypeDisplay MessageType = "display"
	MessageTypeRound   MessageType = "round"
	MessageTypeError   MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

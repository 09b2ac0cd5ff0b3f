package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/rockpaperscissors/internal/game"
	"github.com/lox/rockpaperscissors/internal/server" // Reuse message types
	"github.com/lox/rockpaperscissors/internal/session"
)

// Client plays a remote session over WebSocket. It satisfies
// session.Actions so a UI can drive it exactly like a local Controller.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	receive   chan *server.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	sessionID string
	closeOnce sync.Once

	onDisplay func(session.Display)
	onRound   func(session.Round)
	onError   func(server.ErrorData)
}

var _ session.Actions = (*Client)(nil)

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *server.Message, 64),
		receive:   make(chan *server.Message, 64),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// OnDisplay registers the handler for display snapshots. Must be called
// before Connect.
func (c *Client) OnDisplay(fn func(session.Display)) { c.onDisplay = fn }

// OnRound registers the handler for resolved rounds. Must be called before
// Connect.
func (c *Client) OnRound(fn func(session.Round)) { c.onRound = fn }

// OnError registers the handler for server errors. Must be called before
// Connect.
func (c *Client) OnError(fn func(server.ErrorData)) { c.onError = fn }

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect() error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	wsURL, err := socketURL(c.serverURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(c.ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()
	go c.eventProcessor()

	c.logger.Info("Connected to server")
	return nil
}

// socketURL converts http/https URLs to ws/wss and points them at /ws
func socketURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	u.Path = "/ws"
	return u.String(), nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close()
			c.connected = false
		}

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// Done is closed once the client has disconnected
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SessionID returns the id the server assigned in its welcome message
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// SendMessage queues a message for the server
func (c *Client) SendMessage(msg *server.Message) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

// Play asks the server to start a round. The server decides whether the
// input is accepted; the result only reports whether it was sent.
func (c *Client) Play(choice game.Choice) bool {
	if !choice.Valid() {
		c.logger.Error("Invalid player choice", "choice", choice)
		return false
	}
	return c.sendAction(server.MessageTypeChoose, server.ChooseData{Choice: choice.String()})
}

// PressKey forwards a key press to the server
func (c *Client) PressKey(key rune) bool {
	if _, ok := game.ChoiceForKey(key); !ok {
		return false
	}
	return c.sendAction(server.MessageTypeKey, server.KeyData{Key: string(key)})
}

// Reset asks the server to reset the session
func (c *Client) Reset() {
	c.sendAction(server.MessageTypeReset, struct{}{})
}

func (c *Client) sendAction(typ server.MessageType, data any) bool {
	msg, err := server.NewMessage(typ, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", typ, "error", err)
		return false
	}
	if err := c.SendMessage(msg); err != nil {
		c.logger.Warn("Failed to send message", "type", typ, "error", err)
		return false
	}
	return true
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() { _ = c.Disconnect() }()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				_ = c.Disconnect()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// eventProcessor dispatches messages in arrival order so snapshots are
// never applied out of sequence
func (c *Client) eventProcessor() {
	for {
		select {
		case msg := <-c.receive:
			c.handleMessage(msg)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) handleMessage(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeWelcome:
		var data server.WelcomeData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Error("Failed to parse welcome", "error", err)
			return
		}
		c.mu.Lock()
		c.sessionID = data.SessionID
		c.mu.Unlock()
		c.logger.Info("Session started", "session", data.SessionID)

	case server.MessageTypeDisplay:
		var data server.DisplayData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Error("Failed to parse display", "error", err)
			return
		}
		if c.onDisplay != nil {
			c.onDisplay(data)
		}

	case server.MessageTypeRound:
		var data server.RoundData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Error("Failed to parse round", "error", err)
			return
		}
		if c.onRound != nil {
			c.onRound(data.Round())
		}

	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Error("Failed to parse error", "error", err)
			return
		}
		c.logger.Warn("Server error", "code", data.Code, "message", data.Message)
		if c.onError != nil {
			c.onError(data)
		}

	default:
		c.logger.Debug("No handler for message type", "type", msg.Type)
	}
}

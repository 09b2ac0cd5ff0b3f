package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/rockpaperscissors/internal/game"
	"github.com/lox/rockpaperscissors/internal/session"
)

// Connection is one browser tab: a WebSocket plus the game session it owns
type Connection struct {
	id         string
	conn       *websocket.Conn
	send       chan *Message
	logger     *log.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	closeOnce  sync.Once
	controller *session.Controller
	metrics    *Metrics
}

// NewConnection wraps conn and creates its session. opts configure the
// session's clock, randomness and timings.
func NewConnection(conn *websocket.Conn, logger *log.Logger, metrics *Metrics, opts ...session.Option) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	c := &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *Message, 64),
		logger:  logger.WithPrefix("conn").With("session", id[:8]),
		ctx:     ctx,
		cancel:  cancel,
		metrics: metrics,
	}

	opts = append(opts, session.WithRoundHook(c.handleRound))
	c.controller = session.NewController(session.NewRecorder(c.sendDisplay), c.logger, opts...)
	return c
}

// ID returns the session identifier sent in the welcome message
func (c *Connection) ID() string {
	return c.id
}

// Start greets the client, paints the initial display and begins pumping
func (c *Connection) Start() {
	welcome, err := NewMessage(MessageTypeWelcome, WelcomeData{SessionID: c.id})
	if err == nil {
		_ = c.SendMessage(welcome)
	}
	c.controller.Render()

	go c.writePump()
	go c.readPump()
}

// Close stops the session and closes the socket
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.controller.Stop()
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// send was closed by a concurrent Close
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		// Close takes the session lock, which a flushing timer may hold
		go func() { _ = c.Close() }()
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage routes one client message to the session
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeChoose:
		c.metrics.observeMessage(msg.Type)
		var data ChooseData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse choose data")
			return
		}
		choice, err := game.ParseChoice(data.Choice)
		if err != nil {
			c.logger.Warn("Rejected choice", "error", err)
			c.sendError("invalid_choice", err.Error())
			return
		}
		c.controller.Play(choice)

	case MessageTypeKey:
		c.metrics.observeMessage(msg.Type)
		var data KeyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse key data")
			return
		}
		if utf8.RuneCountInString(data.Key) != 1 {
			return
		}
		r, _ := utf8.DecodeRuneInString(data.Key)
		c.controller.PressKey(r)

	case MessageTypeReset:
		c.metrics.observeMessage(msg.Type)
		c.controller.Reset()

	default:
		c.metrics.observeMessage("unknown")
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) sendDisplay(d session.Display) {
	msg, err := NewMessage(MessageTypeDisplay, d)
	if err != nil {
		c.logger.Error("Failed to create display message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) handleRound(r session.Round) {
	c.metrics.observeRound(r)

	msg, err := NewMessage(MessageTypeRound, RoundDataFromSession(r))
	if err != nil {
		c.logger.Error("Failed to create round message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

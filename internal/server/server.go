package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/lox/rockpaperscissors/internal/game"
	"github.com/lox/rockpaperscissors/internal/randutil"
	"github.com/lox/rockpaperscissors/internal/session"
)

//go:embed web
var webFS embed.FS

// Server hosts the browser page and one game session per WebSocket
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	runOnce     sync.Once
	httpServer  *http.Server

	metrics       *Metrics
	clock         quartz.Clock
	sessionConfig session.Config
	seed          int64
	sessions      atomic.Uint64
	randomSource  func(n uint64) game.RandomSource
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock every session's timers run on
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithSessionConfig sets the round timings for new sessions
func WithSessionConfig(cfg session.Config) Option {
	return func(s *Server) { s.sessionConfig = cfg }
}

// WithSeed makes computer moves reproducible: session n draws from a
// generator derived from seed and n
func WithSeed(seed int64) Option {
	return func(s *Server) { s.seed = seed }
}

// WithRandomSource overrides how each session gets its random source
func WithRandomSource(fn func(n uint64) game.RandomSource) Option {
	return func(s *Server) { s.randomSource = fn }
}

// WithMetrics shares a metrics registry with the caller
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a new game server
func NewServer(addr string, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// The page is served from this origin; other origins are
			// accepted so the page can also be opened from a file
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections:   make(map[*Connection]bool),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		logger:        logger.WithPrefix("server"),
		ctx:           ctx,
		cancel:        cancel,
		clock:         quartz.NewReal(),
		sessionConfig: session.DefaultConfig(),
		seed:          time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.randomSource == nil {
		seed := s.seed
		s.randomSource = func(n uint64) game.RandomSource {
			return randutil.Derive(seed, n)
		}
	}
	return s
}

// Handler returns the HTTP handler for the page, the socket, health and
// metrics, wrapped with panic recovery and access logging
func (s *Server) Handler() http.Handler {
	s.runOnce.Do(func() { go s.run() })

	static, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(fmt.Sprintf("embedded web assets missing: %v", err))
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	accessLog := s.logger.WithPrefix("http").StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel})
	errorLog := s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(errorLog),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(handlers.CombinedLoggingHandler(accessLog.Writer(), mux))
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting server", "addr", s.addr, "think", s.sessionConfig.ThinkDelay, "reveal", s.sessionConfig.RevealDelay)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and closes every session
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// ConnectionCount returns the number of live sessions
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.metrics.sessionOpened()
			s.logger.Info("Client connected", "session", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			delete(s.connections, conn)
			total := len(s.connections)
			s.mu.Unlock()
			if ok {
				s.metrics.sessionClosed()
				_ = conn.Close()
			}
			s.logger.Info("Client disconnected", "session", conn.ID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	n := s.sessions.Add(1)
	client := NewConnection(conn, s.logger, s.metrics,
		session.WithClock(s.clock),
		session.WithConfig(s.sessionConfig),
		session.WithRandomSource(s.randomSource(n)),
	)

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

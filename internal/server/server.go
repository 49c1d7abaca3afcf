package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/logging"
	"github.com/muurk/promodeck/internal/unlock"
)

// shutdownTimeout bounds how long Serve waits for sessions after ctx ends
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	Timing   unlock.Timing
	NoGate   bool         // If true, sessions unlock through the fallback path
	CertPath string       // Serve HTTPS when both CertPath and KeyPath are set
	KeyPath  string
	Clock    unlock.Clock // nil means the real clock
}

// Addr returns host:port
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server serves the promo code page and its WebSocket sessions
type Server struct {
	config     *Config
	game       *catalog.Game
	metrics    *Metrics
	engine     *gin.Engine
	upgrader   websocket.Upgrader
	tlsConfig  *tls.Config
	httpServer *http.Server

	wg       sync.WaitGroup
	mu       sync.Mutex
	sessions map[string]*Session
	listener net.Listener
}

// New creates a server for game
func New(config *Config, game *catalog.Game) (*Server, error) {
	if game == nil {
		return nil, errors.New("server needs a catalog")
	}
	if config.Timing == (unlock.Timing{}) {
		config.Timing = unlock.DefaultTiming()
	}
	if err := config.Timing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing: %w", err)
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" || config.KeyPath != "" {
		if config.CertPath == "" || config.KeyPath == "" {
			return nil, errors.New("TLS needs both a certificate and a key")
		}
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s := &Server{
		config:    config,
		game:      game,
		metrics:   NewMetrics(),
		tlsConfig: tlsConfig,
		sessions:  make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	engine, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         tlsConfig,
	}
	return s, nil
}

// Handler returns the HTTP handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	return ln, nil
}

// Port returns the bound port, or the configured one before Listen
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.config.Port
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	scheme := "http"
	if s.tlsConfig != nil {
		scheme = "https"
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	logging.Info("Starting promodeck server",
		zap.String("addr", ln.Addr().String()),
		zap.String("scheme", scheme),
		zap.String("game", s.game.Name),
		zap.Int("codes", len(s.game.Codes)),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Start listens on the configured address and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Shutdown stops accepting connections, closes every session and waits for
// them to finish
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Error("Error stopping HTTP server", zap.Error(err))
	}

	// Hijacked WebSocket connections are not closed by http.Server
	s.mu.Lock()
	for id, session := range s.sessions {
		logging.Info("Closing active session", zap.String("session", id))
		session.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// ActiveSessions returns the number of open WebSocket sessions
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// handleWebSocket upgrades the request and runs a session until it ends
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", c.Request.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	session := newSession(conn, c.Request.RemoteAddr, s.game, s.config, s.metrics)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	s.wg.Add(1)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, session.ID)
		s.mu.Unlock()
		s.wg.Done()
	}()

	session.run()
}

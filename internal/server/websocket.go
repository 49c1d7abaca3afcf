package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/logging"
	"github.com/muurk/promodeck/internal/unlock"
	"github.com/muurk/promodeck/internal/view"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Outbound frames buffered per session
	sendBuffer = 512
)

// Message types exchanged over /ws
const (
	MessageUnlock = "unlock" // client: start checking a code
	MessageReady  = "ready"  // server: session opened
	MessageCard   = "card"   // server: a card changed
	MessageGate   = "gate"   // server: invoke the page's locker for a code
	MessageError  = "error"  // server: the last client message was rejected
)

// ClientMessage is a frame sent by the browser
type ClientMessage struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
}

// ServerMessage is a frame sent to the browser
type ServerMessage struct {
	Type    string     `json:"type"`
	Session string     `json:"session,omitempty"`
	ID      int        `json:"id,omitempty"`
	Card    *view.Card `json:"card,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Session is one WebSocket connection with its own controller per promo
// code. Unlocking a card in one session never affects another.
type Session struct {
	ID         string
	RemoteAddr string

	conn        *websocket.Conn
	metrics     *Metrics
	controllers map[int]*unlock.Controller
	order       []int

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, remoteAddr string, game *catalog.Game, config *Config, metrics *Metrics) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		RemoteAddr:  remoteAddr,
		conn:        conn,
		metrics:     metrics,
		controllers: make(map[int]*unlock.Controller, len(game.Codes)),
		send:        make(chan []byte, sendBuffer),
		done:        make(chan struct{}),
	}

	clock := config.Clock
	if clock == nil {
		clock = unlock.RealClock()
	}

	for _, code := range game.Codes {
		code := code
		opts := []unlock.Option{
			unlock.WithClock(clock),
			unlock.WithListener(func(snap unlock.Snapshot) {
				card := view.Describe(code, snap)
				s.enqueue(ServerMessage{Type: MessageCard, ID: code.ID, Card: &card})
			}),
			unlock.WithCompletion(func(o unlock.Outcome) {
				metrics.gateOutcome(o.String())
			}),
		}
		if !config.NoGate {
			opts = append(opts, unlock.WithGate(s.gateFor(code.ID)))
		}
		s.controllers[code.ID] = unlock.NewController(code.ID, config.Timing, opts...)
		s.order = append(s.order, code.ID)
	}

	return s
}

// gateFor asks the browser to run its locker for codeID
func (s *Session) gateFor(codeID int) unlock.Gate {
	return func() error {
		if !s.enqueue(ServerMessage{Type: MessageGate, ID: codeID}) {
			return fmt.Errorf("session %s cannot deliver gate frame", s.ID)
		}
		return nil
	}
}

// run serves the session until the peer goes away or Close is called
func (s *Session) run() {
	logging.LogConnection(s.RemoteAddr, "websocket_opened")
	s.metrics.activeSessions.Inc()

	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.writePump()
	}()

	s.enqueue(ServerMessage{Type: MessageReady, Session: s.ID})
	for _, id := range s.order {
		c := s.controllers[id]
		c.Start()
	}

	s.readPump()

	s.Close()
	writer.Wait()
	_ = s.conn.Close()

	s.metrics.activeSessions.Dec()
	logging.LogConnection(s.RemoteAddr, "websocket_closed")
}

// Close stops every controller and ends the session. Safe to call more
// than once and from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, c := range s.controllers {
			c.Stop()
		}
		close(s.done)
		// Unblock readPump
		_ = s.conn.SetReadDeadline(time.Now())
	})
}

// Controller returns the controller of codeID in this session
func (s *Session) Controller(codeID int) (*unlock.Controller, bool) {
	c, ok := s.controllers[codeID]
	return c, ok
}

// enqueue queues msg for the writer. It never blocks: controller callbacks
// call it with their lock held.
func (s *Session) enqueue(msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("Failed to marshal WebSocket message", zap.Error(err))
		return false
	}

	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- data:
		return true
	default:
		logging.Warn("WebSocket send buffer full, dropping frame",
			zap.String("session", s.ID),
			zap.String("type", msg.Type),
		)
		return false
	}
}

func (s *Session) readPump() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				select {
				case <-s.done:
				default:
					logging.Info("WebSocket read failed",
						zap.String("remote_addr", s.RemoteAddr),
						zap.Error(err),
					)
				}
			}
			return
		}

		logging.LogWebSocketMessage(s.RemoteAddr, "received", messageType, data)
		s.handleMessage(data)
	}
}

func (s *Session) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.reject(fmt.Sprintf("malformed message: %v", err))
		return
	}

	if msg.Type != MessageUnlock {
		s.reject(fmt.Sprintf("unknown message type %q", msg.Type))
		return
	}

	c, ok := s.controllers[msg.ID]
	if !ok {
		s.reject(fmt.Sprintf("%v: %d", catalog.ErrCodeNotFound, msg.ID))
		return
	}

	// Repeats while checking or revealing are ignored like any other
	// invalid transition
	s.metrics.unlockRequest(c.RequestUnlock())
}

func (s *Session) reject(message string) {
	logging.Debug("Rejected WebSocket message",
		zap.String("session", s.ID),
		zap.String("reason", message),
	)
	s.enqueue(ServerMessage{Type: MessageError, Message: message})
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.send:
			if err := s.write(websocket.TextMessage, data); err != nil {
				s.Close()
				return
			}

		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			s.flush()
			_ = s.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes frames queued before the session closed
func (s *Session) flush() {
	for {
		select {
		case data := <-s.send:
			if err := s.write(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) write(messageType int, data []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(messageType, data); err != nil {
		return err
	}
	if messageType == websocket.TextMessage {
		logging.LogWebSocketMessage(s.RemoteAddr, "sent", messageType, data)
	}
	return nil
}

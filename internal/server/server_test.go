package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/unlock"
	"github.com/muurk/promodeck/internal/view"
)

var fastTiming = unlock.Timing{
	Duration:    40 * time.Millisecond,
	Interval:    10 * time.Millisecond,
	SettleDelay: 5 * time.Millisecond,
}

func newTestServer(t *testing.T, config *Config) (*Server, *httptest.Server) {
	t.Helper()
	game, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if config.Timing == (unlock.Timing{}) {
		config.Timing = fastTiming
	}
	srv, err := New(config, game)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error = %v", err)
	}
	return resp.StatusCode, string(body)
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	msg := readMessage(t, conn)
	if msg.Type != MessageReady || msg.Session == "" {
		t.Fatalf("first frame = %+v, want ready with session id", msg)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("frame %s is not JSON: %v", data, err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

// runUnlock reads frames until the card reaches Revealing and returns the
// frames seen on the way
func runUnlock(t *testing.T, conn *websocket.Conn, id int) []ServerMessage {
	t.Helper()
	var frames []ServerMessage
	for {
		msg := readMessage(t, conn)
		frames = append(frames, msg)
		if msg.Type == MessageCard && msg.Card != nil && msg.Card.Mode == view.ModeRevealing {
			return frames
		}
		if len(frames) > 100 {
			t.Fatalf("card %d never reached revealing", id)
		}
	}
}

func TestSessionUnlockWithGate(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)

	send(t, conn, `{"type":"unlock","id":101}`)
	frames := runUnlock(t, conn, 101)

	first := frames[0]
	if first.Type != MessageCard || first.Card.Mode != view.ModeChecking || first.Card.Progress != 0 {
		t.Fatalf("first frame = %+v, want checking at 0", first)
	}

	last := 0.0
	gateAt := -1
	for i, f := range frames {
		switch f.Type {
		case MessageGate:
			if f.ID != 101 {
				t.Errorf("gate frame id = %d, want 101", f.ID)
			}
			if gateAt >= 0 {
				t.Error("gate frame sent twice")
			}
			gateAt = i
		case MessageCard:
			if f.ID != 101 {
				t.Errorf("card frame for %d, want only 101", f.ID)
			}
			if f.Card.Mode == view.ModeChecking {
				if f.Card.Progress < last {
					t.Errorf("progress went back from %v to %v", last, f.Card.Progress)
				}
				last = f.Card.Progress
				if f.Card.MaskedCode != "" {
					t.Error("checking card shows the masked code")
				}
			}
		}
	}
	if last != 100 {
		t.Errorf("last checking progress = %v, want 100", last)
	}
	if gateAt < 0 || gateAt != len(frames)-2 {
		t.Errorf("gate frame at %d of %d, want just before revealing", gateAt, len(frames))
	}

	revealed := frames[len(frames)-1].Card
	if !revealed.Obscured || revealed.Button.Enabled || revealed.Button.Label != view.UnlockingLabel {
		t.Errorf("revealing card = %+v", revealed)
	}
	if revealed.MaskedCode != "••2024" {
		t.Errorf("masked code = %q", revealed.MaskedCode)
	}
}

func TestSessionUnlockWithoutGate(t *testing.T) {
	_, ts := newTestServer(t, &Config{NoGate: true})
	conn := dial(t, ts)

	send(t, conn, `{"type":"unlock","id":102}`)
	for _, f := range runUnlock(t, conn, 102) {
		if f.Type == MessageGate {
			t.Fatal("gate frame sent with the gate disabled")
		}
	}
}

func TestSessionRejectsBadInput(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"malformed", `{"type":`, "malformed message"},
		{"unknown type", `{"type":"reveal","id":101}`, "unknown message type"},
		{"unknown id", `{"type":"unlock","id":999}`, "promo code not found: 999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.payload)
			msg := readMessage(t, conn)
			if msg.Type != MessageError || !strings.Contains(msg.Message, tt.want) {
				t.Errorf("reply = %+v, want error containing %q", msg, tt.want)
			}
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv, ts := newTestServer(t, &Config{NoGate: true})
	a := dial(t, ts)
	dial(t, ts)

	send(t, a, `{"type":"unlock","id":101}`)
	runUnlock(t, a, 101)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(srv.sessions))
	}
	revealed := 0
	for _, s := range srv.sessions {
		c, _ := s.Controller(101)
		if c.Snapshot().State == unlock.Revealing {
			revealed++
		}
	}
	if revealed != 1 {
		t.Errorf("%d sessions revealed code 101, want 1", revealed)
	}
}

func TestSessionTeardownStopsControllers(t *testing.T) {
	srv, ts := newTestServer(t, &Config{Timing: unlock.Timing{
		Duration:    time.Second,
		Interval:    10 * time.Millisecond,
		SettleDelay: 5 * time.Millisecond,
	}})
	conn := dial(t, ts)

	send(t, conn, `{"type":"unlock","id":101}`)
	if msg := readMessage(t, conn); msg.Type != MessageCard {
		t.Fatalf("frame = %+v, want card", msg)
	}

	srv.mu.Lock()
	var session *Session
	for _, s := range srv.sessions {
		session = s
	}
	srv.mu.Unlock()
	if session == nil {
		t.Fatal("no session registered")
	}

	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.ActiveSessions() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("session still registered after the client went away")
		}
		time.Sleep(10 * time.Millisecond)
	}

	c, _ := session.Controller(101)
	if c.Live() || c.Pending() {
		t.Error("controller still live or scheduled after teardown")
	}
	if c.RequestUnlock() {
		t.Error("stopped controller accepted an unlock")
	}
}

func TestCatalogNeverContainsFullCode(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	game, _ := catalog.Default()

	for _, path := range []string{"/api/catalog", "/"} {
		status, body := get(t, ts.URL+path)
		if status != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, status)
		}
		for _, c := range game.Codes {
			if strings.Contains(body, c.Code) {
				t.Errorf("GET %s leaked code %q", path, c.Code)
			}
		}
	}

	_, body := get(t, ts.URL+"/api/catalog")
	var page view.Page
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		t.Fatalf("catalog is not JSON: %v", err)
	}
	if len(page.Cards) != 3 || page.Header.SectionTitle != view.SectionTitle {
		t.Errorf("catalog = %d cards, title %q", len(page.Cards), page.Header.SectionTitle)
	}
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	_, body := get(t, ts.URL+"/")
	for _, s := range []string{"The Forge [BETA]", "Available Promo Codes", "Show Full Code", "••2024", "/ws", "window._kt"} {
		if !strings.Contains(body, s) {
			t.Errorf("index missing %q", s)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)
	send(t, conn, `{"type":"unlock","id":101}`)
	runUnlock(t, conn, 101)

	status, body := get(t, ts.URL+"/healthz")
	if status != http.StatusOK {
		t.Fatalf("healthz status = %d", status)
	}
	var health struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatalf("healthz is not JSON: %v", err)
	}
	if health.Status != "ok" || health.Sessions != 1 {
		t.Errorf("health = %+v", health)
	}

	_, metrics := get(t, ts.URL+"/metrics")
	for _, s := range []string{
		`promodeck_unlock_requests_total{result="accepted"} 1`,
		`promodeck_gate_outcomes_total{outcome="invoked"} 1`,
		`promodeck_sessions_active 1`,
		`promodeck_http_requests_total{route="/healthz",status="200"} 1`,
	} {
		if !strings.Contains(metrics, s) {
			t.Errorf("metrics missing %q", s)
		}
	}
}

func TestNewValidation(t *testing.T) {
	game, _ := catalog.Default()

	if _, err := New(&Config{}, nil); err == nil {
		t.Error("expected error without a catalog")
	}
	if _, err := New(&Config{Timing: unlock.Timing{Duration: time.Second}}, game); err == nil {
		t.Error("expected error for zero interval")
	}
	if _, err := New(&Config{CertPath: "cert.pem"}, game); err == nil {
		t.Error("expected error for a certificate without a key")
	}

	srv, err := New(&Config{Host: "127.0.0.1", Port: 0}, game)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.config.Timing != unlock.DefaultTiming() {
		t.Errorf("timing = %+v, want default", srv.config.Timing)
	}
}

func TestServeAndShutdown(t *testing.T) {
	game, _ := catalog.Default()
	srv, err := New(&Config{Host: "127.0.0.1", Port: 0, Timing: fastTiming}, game)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ln, err := srv.Listen()
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if srv.Port() == 0 {
		t.Fatal("Port() = 0 after Listen")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	status, _ := get(t, "http://"+ln.Addr().String()+"/healthz")
	if status != http.StatusOK {
		t.Errorf("healthz status = %d", status)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

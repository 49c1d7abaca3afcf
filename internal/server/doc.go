// Package server serves the promo code page over HTTP and drives its cards
// from WebSocket sessions.
//
// # Routes
//
//	GET /             HTML page with the game header and locked cards
//	GET /api/catalog  the same page as JSON (masked codes only)
//	GET /healthz      status, build version and open session count
//	GET /metrics      Prometheus exposition
//	GET /ws           WebSocket session
//
// # Sessions
//
// Every WebSocket connection gets a Session with one unlock.Controller per
// promo code, so two browsers unlocking the same code do not interfere.
// The browser sends
//
//	{"type":"unlock","id":101}
//
// and receives a "card" frame for every state or progress change of that
// card. When checking completes the session's gate sends
//
//	{"type":"gate","id":101}
//
// which the page answers by calling its window._kt locker when one is
// installed. Config.NoGate removes the gate and cards reveal through the
// fallback path. Malformed frames and unknown ids are answered with an
// "error" frame; the session stays open.
//
// Closing the connection stops every controller of the session, so no
// timer outlives it.
//
// # Usage Example
//
//	game, _ := catalog.Default()
//	srv, err := server.New(&server.Config{Host: "0.0.0.0", Port: 8080}, game)
//	if err != nil {
//	    return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	return srv.Start(ctx)
//
// # Graceful Shutdown
//
// When the context passed to Start or Serve is cancelled the server stops
// accepting connections, closes every session and waits up to ten seconds
// for them to finish.
package server

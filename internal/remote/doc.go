// Package remote reads pages served by other promodeck instances.
//
// A served page exposes its header and locked cards on /api/catalog and a
// health document on /healthz. Client fetches both with retries and
// exponential backoff, and caches the page for a short time:
//
//	client := remote.NewClient("http://192.168.1.20:8080")
//	page, err := client.GetPage(ctx)
//	if err != nil {
//	    fmt.Println(remote.TroubleshootingHint(err))
//	}
//
// Only masked codes travel over this API. Full codes are sent solely over a
// WebSocket session once a card reaches Revealing.
package remote

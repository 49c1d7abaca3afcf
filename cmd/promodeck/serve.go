package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/promodeck/internal/discovery"
	"github.com/muurk/promodeck/internal/server"
	"github.com/muurk/promodeck/internal/version"
)

// Serve command flags
var (
	host      string
	port      int
	advertise bool
	noGate    bool
	certPath  string
	keyPath   string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (default: preferences.server.host)")
	serveCmd.Flags().IntVar(&port, "port", 0, "Listen port (default: preferences.server.port)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Register the page over mDNS so 'promodeck discover' can find it")
	serveCmd.Flags().BoolVar(&noGate, "no-gate", false, "Reveal without asking the page to run its locker")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (serves HTTPS with --key)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	addTimingFlags(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the promo code page over HTTP",
	Long: `Serve the promo code page as a web page.

Every browser tab opens its own WebSocket session, so unlocking a card in
one tab does not affect another. When checking completes the page's
window._kt locker is called if one is installed.

Prometheus metrics are exposed on /metrics and a health check on /healthz.`,
	Example: `  # Serve on the configured port (8080 by default)
  promodeck serve

  # Serve on all interfaces and announce over mDNS
  promodeck serve --host 0.0.0.0 --port 9000 --advertise

  # Serve HTTPS
  promodeck serve --cert fullchain.pem --key privkey.pem`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath == "") != (keyPath == "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}

	prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	game, err := loadCatalog(prefs)
	if err != nil {
		return err
	}
	timing, err := resolveTiming(cmd, prefs)
	if err != nil {
		return err
	}

	cfg := &server.Config{
		Host:     prefs.Server.Host,
		Port:     prefs.Server.Port,
		Timing:   timing,
		NoGate:   noGate,
		CertPath: certPath,
		KeyPath:  keyPath,
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	shouldAdvertise := prefs.Server.Advertise
	if cmd.Flags().Changed("advertise") {
		shouldAdvertise = advertise
	}

	srv, err := server.New(cfg, game)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(serveContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s (Ctrl+C to stop)\n", game.Name, ln.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(ctx, ln)
	})

	if shouldAdvertise {
		ad, err := discovery.Advertise(discovery.Advertisement{
			Instance: discovery.InstanceName(game.Name),
			Port:     srv.Port(),
			Game:     game.Name,
			Codes:    len(game.Codes),
			Version:  version.Version,
		})
		if err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("failed to advertise page: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Advertising as %s.%s\n", ad.Instance(), discovery.ServiceType)

		g.Go(func() error {
			<-ctx.Done()
			ad.Shutdown()
			return nil
		})
	}

	return g.Wait()
}

// serveContext is the base context used when the command has none
func serveContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

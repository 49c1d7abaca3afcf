package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/promodeck/internal/config"
	"github.com/muurk/promodeck/internal/discovery"
	"github.com/muurk/promodeck/internal/gate"
	"github.com/muurk/promodeck/internal/logging"
	"github.com/muurk/promodeck/internal/remote"
	"github.com/muurk/promodeck/internal/tui"
	"github.com/muurk/promodeck/internal/ui"
	"github.com/muurk/promodeck/internal/urls"
	"github.com/muurk/promodeck/internal/view"
)

// Browse command flags
var (
	gateMode    string
	gateCommand string
	lockerURL   string
	themeName   string
)

func init() {
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(discoverCmd)
}

func addBrowseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&gateMode, "gate", "", "Disclosure gate: none, log, browser or command (default: preferences.gate.mode)")
	cmd.Flags().StringVar(&gateCommand, "gate-command", "", "Program run by --gate=command; {id} is replaced with the code id")
	cmd.Flags().StringVar(&lockerURL, "locker-url", "", "URL opened by --gate=browser; {id} is replaced with the code id")
	cmd.Flags().StringVar(&themeName, "theme", "", "Starting theme: dark or light (default: preferences.theme)")
	addTimingFlags(cmd)
}

// browseCmd opens the interactive terminal page
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive promo code page",
	Long: `Open the promo code page in the terminal.

Move between cards with the arrow keys and press enter to show the full
code. The card runs its checking animation, then calls the configured
disclosure gate before revealing.`,
	Example: `  # Open the embedded catalog (browse is the default command)
  promodeck

  # Use your own catalog and a faster animation
  promodeck browse --catalog games/forge.yaml --duration 1s

  # Open a locker page for each code
  promodeck browse --gate browser --locker-url "https://example.com/locker?code={id}"

  # Log gate calls to a file while the page runs
  PROMODECK_LOG_FILE=promodeck.log promodeck --log-level debug --gate log`,
	RunE: runBrowse,
}

func init() {
	addBrowseFlags(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
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

	mode, command, url := gate.ModeNone, gateCommand, lockerURL
	if prefs.Gate != nil {
		mode = gate.Mode(prefs.Gate.Mode)
		if command == "" {
			command = prefs.Gate.Command
		}
		if url == "" {
			url = prefs.Gate.LockerURL
		}
	}
	if gateMode != "" {
		mode = gate.Mode(gateMode)
	}
	gates, err := gate.Resolve(mode, command, url)
	if err != nil {
		return err
	}

	theme := prefs.Theme
	if themeName != "" {
		theme = themeName
	}

	if logLevel != "" && os.Getenv(logging.LogFileEnvVar) == "" {
		fmt.Fprintf(os.Stderr, "Note: set %s to keep log output off the page\n", logging.LogFileEnvVar)
	}

	return tui.Run(game, tui.PageOptions{
		Timing: timing,
		Gates:  gates,
		Theme:  theme,
	})
}

// List command flags
var (
	outputFormat string
	remoteURL    string
)

// listCmd prints the page without interaction
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the promo code page",
	Long: `Print the game header and every card in its locked state.

Only masked codes are ever printed.`,
	Example: `  # Styled output
  promodeck list

  # JSON for scripting
  promodeck list --format json

  # Read the page served by another machine
  promodeck list --remote 192.168.1.20:8080`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	listCmd.Flags().StringVar(&themeName, "theme", "", "Theme: dark or light")
	listCmd.Flags().StringVar(&remoteURL, "remote", "", "Print the page served by 'promodeck serve' at this URL instead of a local catalog")
}

func runList(cmd *cobra.Command, args []string) error {
	prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	page, err := listedPage(cmd, prefs)
	if err != nil {
		return err
	}

	theme := prefs.Theme
	if themeName != "" {
		theme = themeName
	}
	printer := ui.NewPrinter(cmd.OutOrStdout(), ui.NewTheme(theme))

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		printer.Println(string(data))
	case "compact":
		rows := make([][]string, len(page.Cards))
		for i, c := range page.Cards {
			rows[i] = []string{strconv.Itoa(c.ID), c.Benefit, c.MaskedCode, c.StockLabel}
		}
		printer.PrintTable([]string{"ID", "BENEFIT", "CODE", "STOCK"}, rows)
	case "detailed":
		printer.PrintPage(page)
	default:
		return fmt.Errorf("unknown format %q (want detailed, compact or json)", outputFormat)
	}
	return nil
}

// listedPage loads the local catalog, or fetches the page at --remote
func listedPage(cmd *cobra.Command, prefs *config.Preferences) (view.Page, error) {
	if remoteURL == "" {
		game, err := loadCatalog(prefs)
		if err != nil {
			return view.Page{}, err
		}
		return view.InitialPage(game), nil
	}

	client := remote.NewClient(remoteURL)
	page, err := client.GetPage(serveContext(cmd))
	if err != nil {
		summary, tips := remote.Troubleshooting(err)
		ui.NewPrinter(cmd.ErrOrStderr(), ui.NewTheme(prefs.Theme)).
			PrintError(summary, err, tips)
		return view.Page{}, fmt.Errorf("failed to fetch %s: %w", client.BaseURL, err)
	}
	return *page, nil
}

// Discover command flags
var (
	scanTimeout int
	plainOutput bool
)

// discoverCmd browses the network for served pages
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find promodeck pages on the local network",
	Long: `Browse mDNS for pages started with 'promodeck serve --advertise'.

The interactive screen opens the chosen page in your browser. With --plain
the results are printed as a table instead.`,
	Example: `  # Interactive discovery
  promodeck discover

  # Quick scan printed as a table
  promodeck discover --plain --timeout 2`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
	discoverCmd.Flags().BoolVar(&plainOutput, "plain", false, "Print results instead of opening the interactive screen")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	theme := ui.NewTheme(prefs.Theme)
	timeout := time.Duration(scanTimeout) * time.Second

	scan := func(ctx context.Context) ([]*discovery.Page, error) {
		return discovery.ScanForPages(ctx, timeout)
	}

	if !plainOutput {
		return tui.RunDiscover(theme, scan)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanning for promodeck pages (timeout: %ds)...\n\n", scanTimeout)
	pages, err := scan(serveContext(cmd))
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printer := ui.NewPrinter(cmd.OutOrStdout(), theme)
	if len(pages) == 0 {
		printer.Println("No pages found.")
		printer.Newline()
		printer.Println("Troubleshooting:")
		printer.Println("  - Start a page with 'promodeck serve --advertise'")
		printer.Println("  - Multicast DNS may be blocked by a firewall or VPN")
		printer.Println("  - Try increasing --timeout for slower networks")
		printer.Newline()
		printer.Println("See " + urls.Discovery)
		return nil
	}

	rows := make([][]string, len(pages))
	for i, p := range pages {
		rows[i] = []string{p.Game(), p.GetMetadata("codes"), p.URL(), strings.TrimSuffix(p.Hostname, "."), pageStatus(cmd, p)}
	}
	printer.PrintTable([]string{"GAME", "CODES", "URL", "HOST", "STATUS"}, rows)
	return nil
}

// pageStatus pings a discovered page once and summarises its health
func pageStatus(cmd *cobra.Command, p *discovery.Page) string {
	client := remote.NewClient(p.BaseURL())
	client.SetTimeout(2 * time.Second)
	health, err := client.Ping(serveContext(cmd))
	if err != nil {
		return "unreachable"
	}
	return fmt.Sprintf("ok (%d sessions)", health.Sessions)
}

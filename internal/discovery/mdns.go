package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/promodeck/internal/logging"
)

const (
	// ServiceType is the mDNS service type promodeck pages advertise
	ServiceType = "_promodeck._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for page discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 8080
)

var instanceUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// InstanceName derives an mDNS instance name from a game name,
// e.g. "The Forge [BETA]" becomes "promodeck-the-forge-beta".
func InstanceName(game string) string {
	slug := strings.Trim(instanceUnsafe.ReplaceAllString(strings.ToLower(game), "-"), "-")
	if slug == "" {
		return "promodeck"
	}
	return "promodeck-" + slug
}

// Scanner handles mDNS page discovery
type Scanner struct {
	// Timeout is the maximum time to wait for page discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForPages discovers all promodeck pages on the local network
func (s *Scanner) ScanForPages() ([]*Page, error) {
	return s.ScanForPagesWithContext(context.Background())
}

// ScanForPagesWithContext discovers pages with a custom context. It returns
// when the timeout elapses or ctx is cancelled.
func (s *Scanner) ScanForPagesWithContext(ctx context.Context) ([]*Page, error) {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	var mu sync.Mutex
	pages := make([]*Page, 0)
	seen := make(map[string]bool)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		for entry := range entries {
			page := s.parseServiceEntry(entry)
			if page == nil {
				continue
			}
			mu.Lock()
			if !seen[page.Instance] {
				seen[page.Instance] = true
				pages = append(pages, page)
				logging.Debug("Discovered page", zap.String("instance", page.Instance), zap.String("url", page.URL()))
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation)
	<-ctx.Done()

	// The resolver closes entries once it shuts down
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]*Page(nil), pages...), nil
}

// parseServiceEntry converts a zeroconf service entry to a Page
// Returns nil if the entry has no instance name or address
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Page {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Page{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     parseText(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// parseText splits TXT records in "key=value" form
func parseText(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			// Key without value
			metadata[parts[0]] = ""
		}
	}
	return metadata
}

// ScanForPages is a convenience function to scan for pages with a custom timeout
func ScanForPages(ctx context.Context, timeout time.Duration) ([]*Page, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForPagesWithContext(ctx)
}

package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Page represents a promodeck web page advertised on the network
type Page struct {
	// Instance is the mDNS instance name (e.g., "promodeck-the-forge")
	Instance string

	// Hostname is the mDNS hostname of the serving machine
	Hostname string

	// IP is the advertised address, IPv4 preferred
	IP string

	// Port is the HTTP port of the page
	Port int

	// Metadata contains the TXT record data: "game", "codes", "version", "path"
	Metadata map[string]string

	// DiscoveredAt is when the page was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the page
func (p *Page) String() string {
	game := p.Game()
	if game == "" {
		game = p.Instance
	}
	return fmt.Sprintf("%s (%s) at %s", game, p.Instance, net.JoinHostPort(p.IP, strconv.Itoa(p.Port)))
}

// BaseURL returns the HTTP base URL for the page
func (p *Page) BaseURL() string {
	return "http://" + net.JoinHostPort(p.IP, strconv.Itoa(p.Port))
}

// URL returns the page address including the advertised path
func (p *Page) URL() string {
	path := p.GetMetadata("path")
	if path == "" {
		path = "/"
	}
	return p.BaseURL() + path
}

// Game returns the advertised game name
func (p *Page) Game() string {
	return p.GetMetadata("game")
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (p *Page) GetMetadata(key string) string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata[key]
}

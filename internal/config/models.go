package config

import (
	"fmt"
	"time"

	"github.com/muurk/promodeck/internal/unlock"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int          `yaml:"version"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Theme       string       `yaml:"theme"`                  // "dark" or "light", starting palette of the terminal page
	CatalogPath string       `yaml:"catalog_path,omitempty"` // Catalog YAML overriding the embedded one
	Gate        *GatePrefs   `yaml:"gate,omitempty"`
	Timing      *TimingPrefs `yaml:"timing,omitempty"`
	Server      *ServerPrefs `yaml:"server,omitempty"`
}

// GatePrefs selects the disclosure gate used by the terminal page.
type GatePrefs struct {
	Mode      string `yaml:"mode"`                 // none, log, browser or command
	Command   string `yaml:"command,omitempty"`    // Program line for command mode; {id} is replaced
	LockerURL string `yaml:"locker_url,omitempty"` // URL for browser mode; {id} is replaced
}

// TimingPrefs overrides the checking animation, in milliseconds.
type TimingPrefs struct {
	DurationMS int `yaml:"duration_ms"`
	IntervalMS int `yaml:"interval_ms"`
	SettleMS   int `yaml:"settle_ms"`
}

// ServerPrefs configures `promodeck serve`.
type ServerPrefs struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"` // Register the page over mDNS
}

// Theme names
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultPort is the web page port when none is configured.
const DefaultPort = 8080

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     currentVersion,
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	timing := unlock.DefaultTiming()
	return &Preferences{
		Theme: ThemeDark,
		Gate: &GatePrefs{
			Mode: "none",
		},
		Timing: &TimingPrefs{
			DurationMS: int(timing.Duration / time.Millisecond),
			IntervalMS: int(timing.Interval / time.Millisecond),
			SettleMS:   int(timing.SettleDelay / time.Millisecond),
		},
		Server: &ServerPrefs{
			Host: "0.0.0.0",
			Port: DefaultPort,
		},
	}
}

// fillDefaults replaces missing sections with their defaults.
func (r *Registry) fillDefaults() {
	defaults := defaultPreferences()
	if r.Preferences == nil {
		r.Preferences = defaults
		return
	}

	p := r.Preferences
	if p.Theme == "" {
		p.Theme = defaults.Theme
	}
	if p.Gate == nil {
		p.Gate = defaults.Gate
	}
	if p.Timing == nil {
		p.Timing = defaults.Timing
	}
	if p.Server == nil {
		p.Server = defaults.Server
	}
	if p.Server.Port == 0 {
		p.Server.Port = DefaultPort
	}
}

// Validate checks values that cannot be corrected silently.
func (r *Registry) Validate() error {
	p := r.Preferences
	if p == nil {
		return nil
	}

	if p.Theme != ThemeDark && p.Theme != ThemeLight {
		return fmt.Errorf("invalid theme %q (want %q or %q)", p.Theme, ThemeDark, ThemeLight)
	}
	if p.Server != nil && (p.Server.Port < 0 || p.Server.Port > 65535) {
		return fmt.Errorf("invalid server port %d", p.Server.Port)
	}
	if p.Timing != nil {
		if err := p.Timing.Timing().Validate(); err != nil {
			return fmt.Errorf("invalid timing: %w", err)
		}
	}

	return nil
}

// Timing converts the millisecond preferences to an unlock.Timing.
func (t *TimingPrefs) Timing() unlock.Timing {
	if t == nil {
		return unlock.DefaultTiming()
	}
	return unlock.Timing{
		Duration:    time.Duration(t.DurationMS) * time.Millisecond,
		Interval:    time.Duration(t.IntervalMS) * time.Millisecond,
		SettleDelay: time.Duration(t.SettleMS) * time.Millisecond,
	}
}

// Addr returns host:port of the web page.
func (s *ServerPrefs) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

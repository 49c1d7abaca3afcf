// Package config provides user configuration management for promodeck.
//
// This package manages a YAML-based configuration file that stores the
// application preferences: starting theme, catalog override, disclosure
// gate, checking timing and web server settings. The configuration follows
// OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/promodeck/config.yaml or $HOME/.config/promodeck/config.yaml
//   - macOS: $HOME/.config/promodeck/config.yaml
//   - Windows: %LOCALAPPDATA%\promodeck\config.yaml
//
// A missing file is not an error; the defaults are used. Missing sections
// of an existing file are filled with defaults on load.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//
//	registry.Preferences.Gate.Mode = "browser"
//	registry.Preferences.Gate.LockerURL = "https://locker.example/?code={id}"
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// Command-line flags override whatever the file says.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config

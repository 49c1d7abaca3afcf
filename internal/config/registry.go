package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName        = "promodeck"
	configFile     = "config.yaml"
	currentVersion = 1
)

var (
	registry     *Registry
	registryOnce sync.Once
	registryErr  error

	// saveMu serialises writers of the config file
	saveMu sync.Mutex
)

// GetConfigDir returns the directory holding the promodeck config file:
//   - Windows: %LOCALAPPDATA%\promodeck, else %USERPROFILE%\AppData\Local\promodeck
//   - everywhere else: $XDG_CONFIG_HOME/promodeck, else $HOME/.config/promodeck
//
// macOS uses the XDG layout rather than ~/Library.
func GetConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName), nil
		}
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(profile, "AppData", "Local", appName), nil
	}

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" && runtime.GOOS != "darwin" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// LoadRegistry returns the registry stored in the config file, or the
// defaults when there is none. The file is read once per process.
func LoadRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		path, err := GetConfigPath()
		if err != nil {
			registryErr = fmt.Errorf("failed to get config path: %w", err)
			return
		}
		registry, registryErr = loadRegistryFromFile(path)
	})
	return registry, registryErr
}

// loadRegistryFromFile parses the registry at path, filling in defaults for
// sections the file leaves out.
func loadRegistryFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if reg.Version != currentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", reg.Version, currentVersion)
	}

	reg.fillDefaults()
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry to the config file, creating its directory with
// user-only permissions.
func (r *Registry) Save() error {
	saveMu.Lock()
	defer saveMu.Unlock()

	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return r.saveToFile(path)
}

const fileHeader = `# promodeck configuration file
#
# theme: dark | light
# gate.mode: none | log | browser | command
# {id} in gate.command or gate.locker_url is replaced with the code id.
# Command-line flags override every value here.
`

// saveToFile writes through a temp file and renames it over path.
func (r *Registry) saveToFile(path string) error {
	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data := append([]byte(fileHeader+"\n"), body...)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// CreateDefaultConfig writes a default configuration file and returns its
// path. An existing file is left untouched unless force is set.
func CreateDefaultConfig(force bool) (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return configPath, fmt.Errorf("config file already exists: %s", configPath)
		}
	}

	return configPath, NewRegistry().Save()
}

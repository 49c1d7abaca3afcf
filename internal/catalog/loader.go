package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// document is the on-disk shape of a catalog file
type document struct {
	Game *Game `yaml:"game"`
}

var (
	// defaultGame is the embedded catalog, parsed once
	defaultGame     *Game
	defaultGameOnce sync.Once
	defaultGameErr  error
)

// Default returns the catalog embedded in the binary.
// Safe to call multiple times; the catalog is parsed only once.
func Default() (*Game, error) {
	defaultGameOnce.Do(func() {
		defaultGame, defaultGameErr = Parse(defaultYAML)
	})
	return defaultGame, defaultGameErr
}

// LoadFile reads and validates a catalog from a YAML file.
func LoadFile(path string) (*Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	game, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return game, nil
}

// Load returns the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Game, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Game, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if doc.Game == nil {
		return nil, &ValidationError{Field: "game", Message: "missing"}
	}
	if err := Validate(doc.Game); err != nil {
		return nil, err
	}
	return doc.Game, nil
}

// Validate checks the invariants every loaded catalog must satisfy.
func Validate(g *Game) error {
	if g.Name == "" {
		return &ValidationError{Field: "game.name", Message: "must not be empty"}
	}
	if len(g.Codes) == 0 {
		return &ValidationError{Field: "game.codes", Message: "at least one code is required"}
	}

	seen := make(map[int]bool, len(g.Codes))
	for i, c := range g.Codes {
		field := fmt.Sprintf("game.codes[%d]", i)
		if seen[c.ID] {
			return &ValidationError{Field: field + ".id", Message: fmt.Sprintf("duplicate id %d", c.ID)}
		}
		seen[c.ID] = true

		if len([]rune(c.Code)) < VisibleSuffix {
			return &ValidationError{Field: field + ".code", Message: fmt.Sprintf("must be at least %d characters", VisibleSuffix)}
		}
		if c.CodesLeft < 0 {
			return &ValidationError{Field: field + ".codes_left", Message: "must not be negative"}
		}
		for _, tag := range c.Tags {
			if !tag.Valid() {
				return &ValidationError{Field: field + ".tags", Message: fmt.Sprintf("unknown tag %q", tag)}
			}
		}
	}
	return nil
}

package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/unlock"
	"github.com/muurk/promodeck/internal/view"
)

func defaultGame(t *testing.T) *catalog.Game {
	t.Helper()
	game, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	return game
}

func firstCode(t *testing.T) catalog.PromoCode {
	t.Helper()
	code, err := defaultGame(t).Code(101)
	if err != nil {
		t.Fatalf("Code(101) error = %v", err)
	}
	return code
}

func TestNewThemeAndToggle(t *testing.T) {
	dark := NewTheme("dark")
	if dark.Name != ThemeDark || dark.Palette != DarkPalette {
		t.Errorf("dark theme = %v", dark.Name)
	}
	if NewTheme("unknown").Name != ThemeDark {
		t.Error("unknown theme should fall back to dark")
	}

	light := dark.Toggle()
	if light.Name != ThemeLight || light.Palette != LightPalette {
		t.Errorf("Toggle() = %v, want light", light.Name)
	}
	if light.Toggle().Name != ThemeDark {
		t.Error("Toggle() twice should return to dark")
	}
}

func TestRenderCardStates(t *testing.T) {
	code := firstCode(t)
	theme := NewTheme(ThemeDark)

	tests := []struct {
		name     string
		snap     unlock.Snapshot
		contains []string
		excludes []string
	}{
		{
			name:     "locked",
			snap:     unlock.Snapshot{State: unlock.Locked},
			contains: []string{"2,500 Gold", "Show Full Code", "••2024", "850 codes left", "Hot", "Verified"},
			excludes: []string{"Checking chosen code validity..."},
		},
		{
			name:     "checking",
			snap:     unlock.Snapshot{State: unlock.Checking, Progress: 42},
			contains: []string{"42%", "Checking chosen code validity..."},
			excludes: []string{"Show Full Code", "••2024", "codes left"},
		},
		{
			name:     "revealing",
			snap:     unlock.Snapshot{State: unlock.Revealing, Progress: 100},
			contains: []string{"Unlocking...", "••2024"},
			excludes: []string{"Show Full Code"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderCard(view.Describe(code, tt.snap), theme, 80, false)
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("card missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("card should not contain %q:\n%s", s, out)
				}
			}
			if strings.Contains(out, code.Code) {
				t.Error("card rendered the full code")
			}
		})
	}
}

func TestRenderHeader(t *testing.T) {
	header := view.DescribeGame(defaultGame(t))
	out := RenderHeader(header, NewTheme(ThemeLight), 80)

	for _, s := range []string{"ROBLOX", "The Forge [BETA]", "4.8", "15,420", "Verified Codes", "1,245", "Uses Today"} {
		if !strings.Contains(out, s) {
			t.Errorf("header missing %q:\n%s", s, out)
		}
	}
}

func TestPrinterPrintPage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, NewTheme(ThemeDark)).SetWidth(80)

	p.PrintPage(view.InitialPage(defaultGame(t)))

	out := buf.String()
	if !strings.Contains(out, "Available Promo Codes") {
		t.Error("page missing section title")
	}
	if strings.Count(out, "Show Full Code") != 3 {
		t.Errorf("expected 3 locked cards, got %d", strings.Count(out, "Show Full Code"))
	}
}

func TestPrinterPrintError(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, NewTheme(ThemeDark)).SetWidth(70)

	p.PrintError("Catalog load", errors.New("invalid catalog: game.name: must not be empty"), []string{"Check the --catalog path"})

	out := buf.String()
	for _, s := range []string{"FAILED", "Catalog load", "game.name", "Troubleshooting:", "--catalog"} {
		if !strings.Contains(out, s) {
			t.Errorf("error box missing %q:\n%s", s, out)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"ID", "BENEFIT"}, [][]string{{"101", "2,500 Gold"}, {"102", "Epic Iron Ingots"}}, NewTheme(ThemeDark))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("table lines = %d, want 3", len(lines))
	}
	if strings.Index(lines[1], "2,500") != strings.Index(lines[0], "BENEFIT") {
		t.Errorf("columns not aligned:\n%s", out)
	}
}

func TestClampWidth(t *testing.T) {
	tests := map[int]int{10: MinTerminalWidth, 80: 80, 500: MaxContentWidth}
	for in, want := range tests {
		if got := ClampWidth(in); got != want {
			t.Errorf("ClampWidth(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestFraction(t *testing.T) {
	tests := map[float64]float64{-5: 0, 0: 0, 42: 0.42, 100: 1, 250: 1}
	for in, want := range tests {
		if got := fraction(in); got != want {
			t.Errorf("fraction(%v) = %v, want %v", in, got, want)
		}
	}
}

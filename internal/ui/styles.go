package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette is the set of colours one theme draws with
type Palette struct {
	Primary lipgloss.Color // Header accents, borders of the selected card
	Accent  lipgloss.Color // Unlock button
	Success lipgloss.Color // Verified tag, ratings
	Warning lipgloss.Color // Hot tag
	Error   lipgloss.Color // Error boxes
	Muted   lipgloss.Color // Secondary text, idle borders
	Text    lipgloss.Color // Main content
	Surface lipgloss.Color // Code box background
}

var (
	// DarkPalette is the default theme
	DarkPalette = Palette{
		Primary: lipgloss.Color("#7D56F4"), // Purple
		Accent:  lipgloss.Color("#06B6D4"), // Cyan
		Success: lipgloss.Color("#43BF6D"), // Green
		Warning: lipgloss.Color("#FFA500"), // Orange
		Error:   lipgloss.Color("#FF5555"), // Red
		Muted:   lipgloss.Color("#626262"), // Gray
		Text:    lipgloss.Color("#FFFFFF"), // White
		Surface: lipgloss.Color("#1A1A1A"), // Dark gray
	}

	// LightPalette is selected with the theme toggle
	LightPalette = Palette{
		Primary: lipgloss.Color("#5B3CC4"),
		Accent:  lipgloss.Color("#0891B2"),
		Success: lipgloss.Color("#15803D"),
		Warning: lipgloss.Color("#C2410C"),
		Error:   lipgloss.Color("#B91C1C"),
		Muted:   lipgloss.Color("#6B7280"),
		Text:    lipgloss.Color("#0F172A"),
		Surface: lipgloss.Color("#F1F5F9"),
	}
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	DefaultPadding   = 2   // Default padding inside boxes
)

// Markers
const (
	StarMarker    = "★"
	UsersMarker   = "●"
	FailureMarker = "✗"
	CursorMarker  = "›"
)

// Theme holds the styles derived from a palette
type Theme struct {
	Name    string
	Palette Palette

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Badge        lipgloss.Style
	Text         lipgloss.Style
	Muted        lipgloss.Style
	Rating       lipgloss.Style
	HotTag       lipgloss.Style
	VerifiedTag  lipgloss.Style
	Button       lipgloss.Style
	BusyButton   lipgloss.Style
	Code         lipgloss.Style
	ObscuredCode lipgloss.Style
	Message      lipgloss.Style
	Section      lipgloss.Style
	Help         lipgloss.Style

	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style
}

// Theme names
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// NewTheme builds the theme called name. Anything other than "light"
// yields the dark theme.
func NewTheme(name string) Theme {
	if name == ThemeLight {
		return themeFrom(ThemeLight, LightPalette)
	}
	return themeFrom(ThemeDark, DarkPalette)
}

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t.Name == ThemeLight {
		return NewTheme(ThemeDark)
	}
	return NewTheme(ThemeLight)
}

func themeFrom(name string, p Palette) Theme {
	return Theme{
		Name:    name,
		Palette: p,

		Title: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		Badge: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		Text: lipgloss.NewStyle().
			Foreground(p.Text),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Rating: lipgloss.NewStyle().
			Foreground(p.Warning),

		HotTag: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), false, true).
			BorderForeground(p.Warning),

		VerifiedTag: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), false, true).
			BorderForeground(p.Success),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(p.Accent).
			Bold(true).
			Padding(0, 2),

		BusyButton: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Surface).
			Italic(true).
			Padding(0, 2),

		Code: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Bold(true).
			Padding(0, 2),

		// Terminal stand-in for the web page's blur
		ObscuredCode: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Surface).
			Faint(true).
			Strikethrough(true).
			Padding(0, 2),

		Message: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		Section: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			MarginTop(1),

		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(1, 0, 0, 0),

		ErrorTitle: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		ErrorMessage: lipgloss.NewStyle().
			Foreground(p.Error),
	}
}

// CardBorderStyle returns the border of a card; the selected card uses the
// primary colour
func (t Theme) CardBorderStyle(width int, selected bool) lipgloss.Style {
	border := t.Palette.Muted
	if selected {
		border = t.Palette.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width-2). // Account for border characters
		Padding(0, 1)
}

// HeaderBorderStyle returns the border style for the game banner
func (t Theme) HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Palette.Primary).
		Width(width-2).
		Padding(0, 1)
}

// ErrorBoxStyle returns the border style for error result boxes
func (t Theme) ErrorBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Palette.Error).
		Width(width-2).
		Padding(1, 2)
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// ClampWidth bounds a terminal width to the supported content range
func ClampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

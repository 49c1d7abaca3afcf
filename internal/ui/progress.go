package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Bars renders the two horizontal bars of a card: the stock ratio and the
// checking progress
type Bars struct {
	Width    int
	stock    progress.Model
	checking progress.Model
}

// NewBars creates bars sized to fit inside a card of cardWidth
func NewBars(cardWidth int, theme Theme) Bars {
	barWidth := cardWidth - 16 // Leave room for border, padding and percentage
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 60 {
		barWidth = 60
	}

	stock := progress.New(
		progress.WithSolidFill(string(theme.Palette.Accent)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	stock.EmptyColor = string(theme.Palette.Muted)

	checking := progress.New(
		progress.WithGradient(string(theme.Palette.Primary), string(theme.Palette.Accent)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)

	return Bars{
		Width:    barWidth,
		stock:    stock,
		checking: checking,
	}
}

// Stock renders the codes-left bar; percent is 0..100
func (b Bars) Stock(percent float64) string {
	return b.stock.ViewAs(fraction(percent))
}

// Checking renders the checking bar with the rounded percentage beside it
func (b Bars) Checking(percent float64, rounded int) string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		b.checking.ViewAs(fraction(percent)),
		fmt.Sprintf("  %3d%%", rounded),
	)
}

func fraction(percent float64) float64 {
	switch {
	case percent <= 0:
		return 0
	case percent >= 100:
		return 1
	default:
		return percent / 100
	}
}

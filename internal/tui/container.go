package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/promodeck/internal/ui"
	"github.com/muurk/promodeck/internal/urls"
	"github.com/muurk/promodeck/internal/version"
)

// AppName is shown at the top left of every screen
const AppName = "PROMODECK"

// buildHeaderContent creates the header line with app name and project link
func buildHeaderContent(theme ui.Theme) string {
	left := theme.Title.Render(AppName + " " + version.Version)
	right := theme.Muted.Render(strings.TrimPrefix(urls.Repository, "https://"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// chromeHeight is the number of rows the container takes around content
const chromeHeight = 6

// renderContainer wraps every screen: header, content and a help footer
// inside a bordered full-terminal panel.
func renderContainer(content, footer string, theme ui.Theme, width, height int) string {
	if width <= 0 {
		width = ui.MinTerminalWidth
	}
	if height <= 0 {
		height = 24
	}

	border := theme.Palette.Primary

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(border).
		Width(width-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(border).
		Width(width-4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(buildHeaderContent(theme)),
		lipgloss.NewStyle().Width(width-4).Render(content),
		footerStyle.Render(theme.Muted.Render(footer)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}

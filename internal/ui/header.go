package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/promodeck/internal/view"
)

// RenderHeader renders the game banner: platform badge, name, description,
// rating and the aggregate stats
func RenderHeader(h view.Header, theme Theme, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	badge := theme.Badge.Render(strings.ToUpper(h.Platform))
	name := theme.Title.Render(h.Name)
	topLine := lipgloss.JoinHorizontal(lipgloss.Center, badge, "  ", name)

	rating := theme.Rating.Render(fmt.Sprintf("%s %s", StarMarker, h.RatingLabel)) +
		theme.Muted.Render(fmt.Sprintf(" (%s ratings)", h.RatingCount))

	var stats []string
	for _, s := range h.Stats {
		stats = append(stats, theme.Text.Bold(true).Render(s.Value)+" "+theme.Muted.Render(s.Label))
	}

	lines := []string{topLine}
	if h.Description != "" {
		lines = append(lines, theme.Muted.Width(width-6).Render(h.Description))
	}
	lines = append(lines, "", rating+"    "+strings.Join(stats, "    "))

	return theme.HeaderBorderStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderSectionTitle renders the heading above the card list
func RenderSectionTitle(title string, theme Theme) string {
	return theme.Section.Render(title)
}

// RenderPage renders the whole page: header, section title and every card
func RenderPage(page view.Page, theme Theme, width int) string {
	parts := []string{
		RenderHeader(page.Header, theme, width),
		RenderSectionTitle(page.Header.SectionTitle, theme),
	}
	for _, c := range page.Cards {
		parts = append(parts, RenderCard(c, theme, width, false))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

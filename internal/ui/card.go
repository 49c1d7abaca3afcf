package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/view"
)

// RenderCard renders one promo code card at the given width
func RenderCard(card view.Card, theme Theme, width int, selected bool) string {
	bars := NewBars(width, theme)

	var body string
	switch card.Mode {
	case view.ModeChecking:
		body = renderChecking(card, theme, bars, width)
	default:
		body = renderDetails(card, theme, bars)
	}

	return theme.CardBorderStyle(width, selected).Render(body)
}

// renderDetails renders the locked and revealing body: metadata, control
// with masked code, and stock bar
func renderDetails(card view.Card, theme Theme, bars Bars) string {
	var lines []string

	title := theme.Title.Render(card.Benefit)
	if tags := renderTags(card.Tags, theme); tags != "" {
		title = lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", tags)
	}
	lines = append(lines, title)

	if card.Description != "" {
		lines = append(lines, theme.Muted.Render(card.Description))
	}

	lines = append(lines, "", renderMeta(card, theme), "")
	lines = append(lines, renderControl(card, theme))
	lines = append(lines, "", bars.Stock(card.StockPercent))
	lines = append(lines, theme.Muted.Render(card.StockLabel))

	return strings.Join(lines, "\n")
}

// renderChecking renders the progress body that replaces the metadata
func renderChecking(card view.Card, theme Theme, bars Bars, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		theme.Badge.Render(fmt.Sprintf("%d%%", card.ProgressPercent)),
		"",
		bars.Checking(card.Progress, card.ProgressPercent),
		"",
		theme.Message.Render(card.ProgressMessage),
		"",
	)
	return lipgloss.Place(width-4, 0, lipgloss.Center, lipgloss.Top, content)
}

func renderMeta(card view.Card, theme Theme) string {
	rating := theme.Rating.Render(fmt.Sprintf("%s %.1f", StarMarker, card.Rating)) +
		theme.Muted.Render(fmt.Sprintf(" (%s)", view.FormatCount(card.RatingCount)))
	uses := theme.Muted.Render(UsersMarker+" ") +
		theme.Text.Bold(true).Render(view.FormatCount(card.UsesToday)) +
		theme.Muted.Render(" uses today")
	return rating + "    " + uses
}

func renderControl(card view.Card, theme Theme) string {
	button := theme.Button.Render(card.Button.Label)
	code := theme.Code.Render(card.MaskedCode)
	if card.Button.Busy {
		button = theme.BusyButton.Render(card.Button.Label)
	}
	if card.Obscured {
		code = theme.ObscuredCode.Render(card.MaskedCode)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, button, code)
}

func renderTags(tags []catalog.Tag, theme Theme) string {
	var rendered []string
	for _, tag := range tags {
		switch tag {
		case catalog.TagHot:
			rendered = append(rendered, theme.HotTag.Render(string(tag)))
		case catalog.TagVerified:
			rendered = append(rendered, theme.VerifiedTag.Render(string(tag)))
		}
	}
	return strings.Join(rendered, " ")
}

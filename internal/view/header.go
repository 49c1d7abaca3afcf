package view

import (
	"fmt"
	"strconv"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/unlock"
)

// SectionTitle heads the list of cards.
const SectionTitle = "Available Promo Codes"

// Stat is one labelled figure in the header.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Header describes the game banner at the top of the page.
type Header struct {
	Name         string  `json:"name"`
	Platform     string  `json:"platform"`
	Description  string  `json:"description"`
	Icon         string  `json:"icon"`
	Rating       float64 `json:"rating"`
	RatingLabel  string  `json:"rating_label"`
	RatingCount  string  `json:"rating_count"`
	Stats        []Stat  `json:"stats"`
	SectionTitle string  `json:"section_title"`
}

// DescribeGame builds the page header for g.
func DescribeGame(g *catalog.Game) Header {
	stats := g.Stats()
	return Header{
		Name:        g.Name,
		Platform:    g.Platform,
		Description: g.Description,
		Icon:        g.Icon,
		Rating:      g.Rating,
		RatingLabel: fmt.Sprintf("%.1f", g.Rating),
		RatingCount: FormatCount(g.RatingCount),
		Stats: []Stat{
			{Label: "Verified Codes", Value: strconv.Itoa(stats.VerifiedCodes)},
			{Label: "Uses Today", Value: FormatCount(stats.UsesToday)},
		},
		SectionTitle: SectionTitle,
	}
}

// FormatCount renders n with comma thousands separators.
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}

	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Page is the full initial rendering: header plus one locked card per code.
type Page struct {
	Header Header `json:"header"`
	Cards  []Card `json:"cards"`
}

// InitialPage describes g with every code locked.
func InitialPage(g *catalog.Game) Page {
	page := Page{
		Header: DescribeGame(g),
		Cards:  make([]Card, 0, len(g.Codes)),
	}
	for _, c := range g.Codes {
		page.Cards = append(page.Cards, Describe(c, unlock.Snapshot{State: unlock.Locked}))
	}
	return page
}

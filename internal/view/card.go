package view

import (
	"fmt"
	"math"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/unlock"
)

const (
	// UnlockLabel is the control label while a code is locked.
	UnlockLabel = "Show Full Code"

	// UnlockingLabel is the control label once the code is revealing.
	UnlockingLabel = "Unlocking..."

	// CheckingMessage is shown under the progress ring.
	CheckingMessage = "Checking chosen code validity..."

	// StockCapacity is the codes-left figure that reads as a full bar.
	StockCapacity = 1000
)

// Ring geometry of the checking indicator.
const (
	RingRadius       = 37
	RingStroke       = 8
	RingNormalRadius = RingRadius - RingStroke/2
)

// RingCircumference is the stroke length of the full ring.
var RingCircumference = 2 * math.Pi * RingNormalRadius

// Mode selects which body a card shows.
type Mode string

const (
	ModeLocked    Mode = "locked"
	ModeChecking  Mode = "checking"
	ModeRevealing Mode = "revealing"
)

// Button describes the card's single control.
type Button struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Busy    bool   `json:"busy"`
}

// Card is everything a renderer needs for one promo code. It never holds
// the full secret code.
type Card struct {
	ID          int           `json:"id"`
	Mode        Mode          `json:"mode"`
	Title       string        `json:"title"`
	Benefit     string        `json:"benefit"`
	Description string        `json:"description"`
	Rating      float64       `json:"rating"`
	RatingCount int           `json:"rating_count"`
	UsesToday   int           `json:"uses_today"`
	Tags        []catalog.Tag `json:"tags"`

	// ShowMetadata is false while checking
	ShowMetadata bool `json:"show_metadata"`

	CodesLeft    int     `json:"codes_left"`
	StockPercent float64 `json:"stock_percent"`
	StockLabel   string  `json:"stock_label"`

	Progress        float64 `json:"progress"`
	ProgressPercent int     `json:"progress_percent"`
	ProgressMessage string  `json:"progress_message,omitempty"`
	RingDashOffset  float64 `json:"ring_dash_offset"`

	// MaskedCode is empty while checking; Obscured blurs it once revealing
	MaskedCode string `json:"masked_code,omitempty"`
	Obscured   bool   `json:"obscured"`

	Button Button `json:"button"`
}

// Describe projects a promo code and its unlock snapshot into a Card.
func Describe(code catalog.PromoCode, snap unlock.Snapshot) Card {
	card := Card{
		ID:           code.ID,
		Mode:         modeFor(snap.State),
		Title:        code.Title,
		Benefit:      code.Benefit,
		Description:  code.Description,
		Rating:       code.Rating,
		RatingCount:  code.RatingCount,
		UsesToday:    code.UsesToday,
		Tags:         append([]catalog.Tag(nil), code.Tags...),
		CodesLeft:    code.CodesLeft,
		StockPercent: StockPercent(code.CodesLeft),
		StockLabel:   StockLabel(code.CodesLeft),
	}

	switch snap.State {
	case unlock.Checking:
		card.Progress = snap.Progress
		card.ProgressPercent = RoundPercent(snap.Progress)
		card.ProgressMessage = CheckingMessage
		card.RingDashOffset = RingDashOffset(snap.Progress)
	case unlock.Revealing:
		card.ShowMetadata = true
		card.Progress = 100
		card.ProgressPercent = 100
		card.MaskedCode = code.Masked()
		card.Obscured = true
		card.Button = Button{Label: UnlockingLabel, Busy: true}
	default:
		card.ShowMetadata = true
		card.MaskedCode = code.Masked()
		card.RingDashOffset = RingCircumference
		card.Button = Button{Label: UnlockLabel, Enabled: true}
	}

	return card
}

func modeFor(s unlock.State) Mode {
	switch s {
	case unlock.Checking:
		return ModeChecking
	case unlock.Revealing:
		return ModeRevealing
	default:
		return ModeLocked
	}
}

// StockPercent is codesLeft as a share of StockCapacity, capped at 100.
func StockPercent(codesLeft int) float64 {
	if codesLeft <= 0 {
		return 0
	}
	return math.Min(100, float64(codesLeft)/StockCapacity*100)
}

// StockLabel is the caption under the stock bar.
func StockLabel(codesLeft int) string {
	return fmt.Sprintf("%d codes left", codesLeft)
}

// RoundPercent rounds half up, like Math.round.
func RoundPercent(p float64) int {
	return int(math.Floor(p + 0.5))
}

// RingDashOffset is the unfilled stroke length of the ring at progress p.
func RingDashOffset(p float64) float64 {
	p = math.Max(0, math.Min(100, p))
	return RingCircumference - p/100*RingCircumference
}

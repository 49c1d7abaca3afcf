package catalog

// Tag marks a promo code with a highlight badge.
type Tag string

const (
	TagHot      Tag = "Hot"
	TagVerified Tag = "Verified"
)

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	return t == TagHot || t == TagVerified
}

// PromoCode is a single redeemable code listed for a game.
// Records are read-only once loaded; the full Code is a secret and is
// never serialized to JSON.
type PromoCode struct {
	ID          int     `yaml:"id" json:"id"`
	Benefit     string  `yaml:"benefit" json:"benefit"`
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description" json:"description"`
	Rating      float64 `yaml:"rating" json:"rating"`
	RatingCount int     `yaml:"rating_count" json:"rating_count"`
	UsesToday   int     `yaml:"uses_today" json:"uses_today"`
	CodesLeft   int     `yaml:"codes_left" json:"codes_left"`
	Code        string  `yaml:"code" json:"-"`
	Tags        []Tag   `yaml:"tags" json:"tags"`
}

// HasTag reports whether the code carries tag t.
func (c PromoCode) HasTag(t Tag) bool {
	for _, tag := range c.Tags {
		if tag == t {
			return true
		}
	}
	return false
}

// Masked returns the display-safe projection of the secret code.
func (c PromoCode) Masked() string {
	return MaskCode(c.Code)
}

// Game is the parent record of a catalog: the title the codes belong to.
type Game struct {
	ID          int         `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Platform    string      `yaml:"platform" json:"platform"`
	Description string      `yaml:"description" json:"description"`
	Icon        string      `yaml:"icon" json:"icon"`
	Rating      float64     `yaml:"rating" json:"rating"`
	RatingCount int         `yaml:"rating_count" json:"rating_count"`
	Codes       []PromoCode `yaml:"codes" json:"-"`
}

// Stats are aggregate figures derived from a game's codes.
type Stats struct {
	TotalCodes    int `json:"total_codes"`
	VerifiedCodes int `json:"verified_codes"`
	UsesToday     int `json:"uses_today"`
}

// Stats computes the aggregate figures shown in the page header.
func (g *Game) Stats() Stats {
	var s Stats
	for _, c := range g.Codes {
		s.TotalCodes++
		if c.HasTag(TagVerified) {
			s.VerifiedCodes++
		}
		s.UsesToday += c.UsesToday
	}
	return s
}

// Code looks up a code by id.
func (g *Game) Code(id int) (PromoCode, error) {
	for _, c := range g.Codes {
		if c.ID == id {
			return c, nil
		}
	}
	return PromoCode{}, ErrCodeNotFound
}

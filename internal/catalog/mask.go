package catalog

const (
	// MaskGlyphs prefixes every masked code.
	MaskGlyphs = "••"

	// VisibleSuffix is how many trailing characters of a code stay visible.
	VisibleSuffix = 4
)

// MaskCode returns the last VisibleSuffix characters of code prefixed with
// MaskGlyphs. Codes are handled as runes so multi-byte characters are never
// split. Catalog validation rejects codes shorter than VisibleSuffix.
func MaskCode(code string) string {
	r := []rune(code)
	if len(r) > VisibleSuffix {
		r = r[len(r)-VisibleSuffix:]
	}
	return MaskGlyphs + string(r)
}

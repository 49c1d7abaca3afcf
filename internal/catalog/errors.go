package catalog

import (
	"errors"
	"fmt"
)

// ErrCodeNotFound is returned when a code id is not part of the catalog.
var ErrCodeNotFound = errors.New("promo code not found")

// ValidationError describes a single problem found in a catalog document.
type ValidationError struct {
	Field   string // e.g. "codes[1].code"
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog: %s: %s", e.Field, e.Message)
}

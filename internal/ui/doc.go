// Package ui provides terminal rendering for promodeck.
//
// This package uses Lipgloss and the Bubbles progress bar to draw the page
// header and promo code cards from the descriptions produced by
// internal/view. The same renderers back the interactive page in
// internal/tui and the one-shot `promodeck list` output.
//
// # Themes
//
// NewTheme("dark") and NewTheme("light") build a Theme from a Palette.
// Theme.Toggle flips between them; the interactive page binds it to "t".
//
// # Card Bodies
//
//   - locked: benefit, tags, rating, uses today, "Show Full Code" control
//     beside the masked code, stock bar
//   - checking: rounded percentage, gradient bar and the checking message
//     in place of the metadata
//   - revealing: the locked layout with a busy "Unlocking..." control and
//     the masked code drawn faint and struck through
//
// # Run Once
//
// Printer renders output without user interaction, for commands that print
// and exit. Its width comes from the terminal and is clamped to
// MinTerminalWidth..MaxContentWidth.
//
// # Logging Integration
//
// This package expects logging to be controlled via the PROMODECK_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the rendered output to be displayed cleanly.
package ui

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/promodeck/internal/view"
)

// Printer provides methods for printing UI components to a writer.
type Printer struct {
	out   io.Writer
	width int
	theme Theme
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer, theme Theme) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
		theme: theme,
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = ClampWidth(width)
	return p
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintPage prints the header and all cards of page
func (p *Printer) PrintPage(page view.Page) {
	p.Println(RenderPage(page, p.theme, p.width))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(RenderErrorBox(title, err, troubleshooting, p.theme, p.width))
}

// PrintTable prints rows as aligned columns under a bold header row
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	p.Println(RenderTable(headers, rows, p.theme))
}

// RenderErrorBox renders an error result box with troubleshooting
func RenderErrorBox(title string, err error, troubleshooting []string, theme Theme, width int) string {
	var lines []string

	lines = append(lines, theme.ErrorTitle.Render(FailureMarker+"  FAILED  ─  "+title), "")

	if err != nil {
		lines = append(lines, theme.ErrorMessage.Render("Error: "+err.Error()), "")
	}

	if len(troubleshooting) > 0 {
		lines = append(lines, theme.Muted.Bold(true).Render("Troubleshooting:"))
		for _, tip := range troubleshooting {
			lines = append(lines, theme.Muted.Render("  • "+tip))
		}
	}

	return theme.ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderTable renders a simple left-aligned table
func RenderTable(headers []string, rows [][]string, theme Theme) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		var b strings.Builder
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style.Width(widths[i] + 2).Render(cell))
		}
		return strings.TrimRight(b.String(), " ")
	}

	lines := []string{renderRow(headers, theme.Title)}
	for _, row := range rows {
		lines = append(lines, renderRow(row, theme.Text))
	}
	return strings.Join(lines, "\n")
}

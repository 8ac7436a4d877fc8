package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
// Width is measured in terminal cells and ANSI sequences are preserved.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return truncate.StringWithTail(s, uint(maxWidth), "...")
}

// TagStyle returns the chip style for a tag: semantic key:value tags and
// plain labels are colored differently.
func TagStyle(tag string) lipgloss.Style {
	if strings.Contains(tag, ":") {
		return TagSemanticStyle
	}
	return TagLabelStyle
}

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Section is a rounded box whose title sits in the top border:
//
//	╭─ Tags (3) ─────╮
//	│ smoke          │
//	╰────────────────╯
type Section struct {
	Title   string
	Hint    string // shown after the title in parentheses
	Rows    []string
	Width   int // outer width including borders
	Focused bool
}

// Render draws the section. Rows shorter than the inner width are padded;
// longer rows are left as they are.
func (s Section) Render() string {
	color := lipgloss.TerminalColor(BorderDefaultColor)
	if s.Focused {
		color = BorderHighlightFocusColor
	}
	border := lipgloss.NewStyle().Foreground(color)
	inner := max(s.Width-2, 1)
	b := lipgloss.RoundedBorder()

	var out strings.Builder
	out.WriteString(s.top(border, inner))
	for _, row := range s.Rows {
		pad := max(inner-lipgloss.Width(row), 0)
		out.WriteString("\n" + border.Render(b.Left) + row + strings.Repeat(" ", pad) + border.Render(b.Right))
	}
	out.WriteString("\n" + border.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return out.String()
}

func (s Section) top(border lipgloss.Style, inner int) string {
	b := lipgloss.RoundedBorder()
	if s.Title == "" {
		return border.Render(b.TopLeft + strings.Repeat(b.Top, inner) + b.TopRight)
	}

	label := lipgloss.NewStyle().Bold(true).Foreground(border.GetForeground()).Render(s.Title)
	used := lipgloss.Width(s.Title)
	if s.Hint != "" {
		label += " " + HintStyle.Render("("+s.Hint+")")
		used += 3 + lipgloss.Width(s.Hint)
	}
	// "─ " before the title and " " after it.
	rest := max(inner-used-3, 0)
	return border.Render(b.TopLeft+b.Top+" ") + label + border.Render(" "+strings.Repeat(b.Top, rest)+b.TopRight)
}

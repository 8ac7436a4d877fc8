package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/javierhbr/test-inventory-sub000/internal/admin"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/styles"
)

const (
	groupPaneWidth = 34
	minDetailWidth = 40
)

// View renders the console. Callers are expected to run the result through
// zone.Scan.
func (m Model) View() string {
	detailWidth := max(m.width-groupPaneWidth-1, minDetailWidth)

	groups := styles.Section{Title: "Groups", Hint: "g/G new", Rows: m.groupRows(groupPaneWidth - 2), Width: groupPaneWidth, Focused: m.pane == PaneGroups}.Render()
	detail := m.renderDetail(detailWidth)

	body := lipgloss.JoinHorizontal(lipgloss.Top, groups, " ", detail)
	footer := styles.HintStyle.Render(m.helpLine())
	view := body + "\n" + footer

	if m.dialog != nil {
		return m.dialog.Overlay(view)
	}
	return view
}

func (m Model) groupRows(width int) []string {
	groups := m.console.Groups()
	if len(groups) == 0 {
		return []string{styles.HintStyle.Render("  no groups, press g to add one")}
	}
	_, renaming := m.console.Renaming()

	rows := make([]string, 0, len(groups))
	for i, g := range groups {
		prefix := "  "
		if i == m.groupCursor && m.pane == PaneGroups {
			prefix = styles.SelectionIndicatorStyle.Render(">") + " "
		}
		if renaming && g.Key == m.console.Selected() {
			rows = append(rows, prefix+m.rename.View())
			continue
		}

		marker := lipgloss.NewStyle().Foreground(styles.RuleGroupColor).Render("R")
		if g.Kind == registry.KindRecipeGroup {
			marker = lipgloss.NewStyle().Foreground(styles.RecipeGroupColor).Render("P")
		}
		name := g.Key
		if g.Key == m.console.Selected() {
			name = lipgloss.NewStyle().Bold(true).Render(name)
		}
		suffix := fmt.Sprintf(" (%d)", g.Members)
		if m.showLOB && g.LineOfBusiness != "" {
			suffix = fmt.Sprintf(" %s (%d)", g.LineOfBusiness, g.Members)
		}
		avail := width - lipgloss.Width(prefix) - 2 - lipgloss.Width(suffix)
		row := prefix + marker + " " + styles.TruncateString(name, avail) + styles.HintStyle.Render(suffix)
		rows = append(rows, zone.Mark(groupZoneID(g.Key), row))
	}
	return rows
}

func (m Model) renderDetail(width int) string {
	sel := m.console.Selected()
	if sel == "" {
		return styles.Section{Title: "Details", Rows: []string{styles.HintStyle.Render("  select a group")}, Width: width}.Render()
	}

	if m.pane == PaneForm {
		if d, ok := m.console.Draft(); ok {
			return m.renderForm(d, width)
		}
	}

	title := sel
	var rows []string
	reg := m.console.Registry()
	if g, ok := reg.RuleGroup(sel); ok {
		rows = append(rows, styles.HintStyle.Render(fmt.Sprintf("  rule group · %s · %s", orDash(g.LineOfBusiness), g.Category)))
		rows = append(rows, "")
		rows = append(rows, m.ruleRows(g, width-2)...)
	} else if g, ok := reg.RecipeGroup(sel); ok {
		rows = append(rows, styles.HintStyle.Render(fmt.Sprintf("  recipe group · %s", orDash(g.LineOfBusiness))))
		rows = append(rows, "")
		rows = append(rows, m.recipeRows(g, width-2)...)
	}
	if !m.console.CanDeleteGroup() {
		rows = append(rows, "", styles.HintStyle.Render("  delete members to remove this group"))
	}
	return styles.Section{Title: title, Hint: "n new · d delete · enter edit", Rows: rows, Width: width, Focused: m.pane == PaneItems}.Render()
}

func (m Model) ruleRows(g registry.RuleGroup, width int) []string {
	if len(g.Rules) == 0 {
		return []string{styles.HintStyle.Render("  no rules")}
	}
	var rows []string
	for i, r := range g.Rules {
		prefix := "  "
		if i == m.itemCursor && m.pane == PaneItems {
			prefix = styles.SelectionIndicatorStyle.Render(">") + " "
		}
		line := prefix + styles.TagSemanticStyle.Render(r.Key) + "  " +
			lipgloss.NewStyle().Foreground(styles.TextDescriptionColor).Render(styles.TruncateString(r.ValidationPattern, width/2))
		if patternBroken(r) {
			line += " " + styles.WarningStyle.Render("⚠ pattern")
		}
		rows = append(rows, styles.TruncateString(line, width))
	}
	return rows
}

func (m Model) recipeRows(g registry.RecipeGroup, width int) []string {
	if len(g.Recipes) == 0 {
		return []string{styles.HintStyle.Render("  no recipes")}
	}
	var rows []string
	for i, r := range g.Recipes {
		prefix := "  "
		if i == m.itemCursor && m.pane == PaneItems {
			prefix = styles.SelectionIndicatorStyle.Render(">") + " "
		}
		line := prefix + r.Name + styles.HintStyle.Render(fmt.Sprintf("  %d tags", len(r.Tags)))
		rows = append(rows, styles.TruncateString(line, width))
	}

	if m.pane == PaneItems && m.itemCursor < len(g.Recipes) {
		rows = append(rows, "")
		rows = append(rows, m.recipePreview(g.Recipes[m.itemCursor], width-2)...)
	}
	return rows
}

// recipePreview renders the highlighted recipe with glamour when available,
// falling back to wrapped plain text.
func (m Model) recipePreview(r registry.Recipe, width int) []string {
	if m.md != nil {
		if out, err := m.md.RenderRecipe(r); err == nil {
			return indent(strings.Split(strings.TrimRight(out, "\n"), "\n"))
		}
	}
	text := strings.Join(r.Tags, ", ")
	if r.Description != "" {
		text += "\n" + r.Description
	}
	return indent(strings.Split(wordwrap.String(text, width), "\n"))
}

func (m Model) renderForm(d admin.Draft, width int) string {
	labels := m.form.labels()
	var sections []string
	for i := range m.form.inputs {
		in := m.form.inputs[i]
		in.Width = width - 4
		sections = append(sections, styles.Section{Title: labels[i], Rows: []string{" " + in.View()}, Width: width, Focused: i == m.form.cursor}.Render())
	}

	verb := "Edit"
	if m.console.State() == admin.StateCreatingField {
		verb = "New"
	}
	title := fmt.Sprintf("%s %s", verb, d.Kind.MemberNoun())
	if m.console.Dirty() {
		title += " *"
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render(title)
	if d.Kind == registry.KindRuleGroup && patternBroken(d.Rule) {
		header += "  " + styles.WarningStyle.Render("pattern does not compile")
	}
	return header + "\n" + strings.Join(sections, "\n") + "\n" + styles.HintStyle.Render("ctrl+s save · esc cancel · tab next field")
}

func (m Model) helpLine() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	if m.console.Dirty() {
		parts = append(parts, "unsaved changes")
	}
	return strings.Join(parts, " · ")
}

func indent(lines []string) []string {
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return lines
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func patternBroken(r registry.SemanticRule) bool {
	return errors.Is(registry.ValidateRule(r), registry.ErrInvalidPattern)
}

// Package tageditor provides a modal for editing the classification set of a
// test, test-data record or execution cart.
//
// The editor is a thin shell over classification.Reduce: every key is turned
// into a reducer command and the resulting InputState is rendered.
package tageditor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/keys"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/overlay"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/styles"
)

const (
	editorWidth    = 52
	maxSuggestions = 8
)

// Field identifies which element is focused.
type Field int

const (
	FieldInput Field = iota
	FieldRecipes
)

// Model holds the tag editor state.
type Model struct {
	title    string
	state    classification.InputState
	original classification.Set
	env      classification.Env
	keys     keys.TagEditorKeyMap

	recipes      []registry.Recipe
	recipeCursor int
	focusedField Field

	notice string
	width  int
	height int
}

// SaveMsg is sent when the user confirms the edited set.
type SaveMsg struct {
	Set     classification.Set
	Changed bool
}

// CancelMsg is sent when the user closes the editor without saving.
type CancelMsg struct{}

// New creates a tag editor over set. title names the entity being edited and
// recipes are offered by the recipe picker.
func New(title string, set classification.Set, env classification.Env, recipes []registry.Recipe) Model {
	state := classification.Reduce(classification.NewInputState(set), classification.Focus{}, env)
	return Model{
		title:    title,
		state:    state,
		original: set,
		env:      env,
		keys:     keys.DefaultTagEditorKeyMap(),
		recipes:  recipes,
	}
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// State returns the reducer state.
func (m Model) State() classification.InputState {
	return m.state
}

// Set returns the edited classification set.
func (m Model) Set() classification.Set {
	return m.state.Set
}

// Dirty reports whether the set differs from the one the editor opened with.
func (m Model) Dirty() bool {
	return !m.state.Set.Equal(m.original)
}

// FocusedField returns the focused element.
func (m Model) FocusedField() Field {
	return m.focusedField
}

// Notice returns the feedback line of the last commit.
func (m Model) Notice() string {
	return m.notice
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if size, ok := msg.(tea.WindowSizeMsg); ok {
			m = m.SetSize(size.Width, size.Height)
		}
		return m, nil
	}

	if key.Matches(keyMsg, m.keys.Save) {
		set := m.state.Set
		changed := m.Dirty()
		return m, func() tea.Msg { return SaveMsg{Set: set, Changed: changed} }
	}

	if m.focusedField == FieldRecipes {
		return m.updateRecipes(keyMsg), nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		if len(m.state.Suggestions) > 0 {
			return m.reduce(classification.Cancel{}), nil
		}
		return m, func() tea.Msg { return CancelMsg{} }

	case key.Matches(keyMsg, m.keys.Up):
		return m.reduce(classification.Navigate{Delta: -1}), nil

	case key.Matches(keyMsg, m.keys.Down):
		if len(m.state.Suggestions) == 0 {
			return m.reduce(classification.Focus{}), nil
		}
		return m.reduce(classification.Navigate{Delta: 1}), nil

	case key.Matches(keyMsg, m.keys.Commit), key.Matches(keyMsg, m.keys.Separator):
		return m.commit(), nil

	case key.Matches(keyMsg, m.keys.Backspace):
		return m.reduce(classification.DeleteBackward{}), nil

	case key.Matches(keyMsg, m.keys.EditLast):
		tags := m.state.Set.Tags()
		if len(tags) == 0 {
			return m, nil
		}
		return m.reduce(classification.Edit{Tag: tags[len(tags)-1]}), nil

	case key.Matches(keyMsg, m.keys.Recipes):
		if len(m.recipes) > 0 {
			m.focusedField = FieldRecipes
			m.recipeCursor = 0
		}
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyRunes:
		return m.reduce(classification.Type{Text: m.state.Draft + string(keyMsg.Runes)}), nil
	case tea.KeySpace:
		return m.reduce(classification.Type{Text: m.state.Draft + " "}), nil
	}
	return m, nil
}

func (m Model) updateRecipes(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Recipes):
		m.focusedField = FieldInput
	case key.Matches(msg, m.keys.Up):
		if m.recipeCursor > 0 {
			m.recipeCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.recipeCursor < len(m.recipes)-1 {
			m.recipeCursor++
		}
	case key.Matches(msg, m.keys.Commit):
		recipe := m.recipes[m.recipeCursor]
		m = m.reduce(classification.ApplyRecipes{Recipes: []registry.Recipe{recipe}})
		m.notice = fmt.Sprintf("applied %q", recipe.Name)
		m.focusedField = FieldInput
		log.Debug(log.CatTags, "Applied recipe", "recipe", recipe.ID, "tags", m.state.Set.Len())
	}
	return m
}

func (m Model) commit() Model {
	m = m.reduce(classification.Commit{})
	last := m.state.Last
	switch {
	case !last.Added():
		m.notice = ""
	case len(last.Replaced) > 0:
		m.notice = fmt.Sprintf("%s replaced %s", last.Tag, strings.Join(last.Replaced, ", "))
	case classification.IsSemantic(last.Tag) && !last.Matched:
		m.notice = fmt.Sprintf("%s matches no rule", last.Tag)
	default:
		m.notice = ""
	}
	if last.Added() {
		log.Debug(log.CatTags, "Committed tag", "tag", last.Tag, "matched", last.Matched, "replaced", len(last.Replaced))
	}
	return m
}

func (m Model) reduce(cmd classification.Command) Model {
	m.state = classification.Reduce(m.state, cmd, m.env)
	return m
}

// View renders the tag editor modal.
func (m Model) View() string {
	sectionWidth := editorWidth - 2

	tagsSection := styles.Section{Title: "Tags", Hint: fmt.Sprintf("%d", m.state.Set.Len()), Rows: m.tagRows(sectionWidth - 2), Width: sectionWidth}.Render()

	inputRows := []string{" > " + m.state.Draft + "▏"}
	inputRows = append(inputRows, m.suggestionRows(sectionWidth-2)...)
	inputSection := styles.Section{Title: "Add tag", Hint: "enter or , to add", Rows: inputRows, Width: sectionWidth, Focused: m.focusedField == FieldInput}.Render()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor)
	borderStyle := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)
	titleBorder := borderStyle.Render(strings.Repeat("─", editorWidth))
	contentPadding := lipgloss.NewStyle().PaddingLeft(1)

	title := m.title
	if m.Dirty() {
		title += " *"
	}

	var b strings.Builder
	b.WriteString(contentPadding.Render(titleStyle.Render(title)) + "\n")
	b.WriteString(titleBorder + "\n\n")
	b.WriteString(contentPadding.Render(tagsSection) + "\n\n")
	b.WriteString(contentPadding.Render(inputSection) + "\n")
	if m.focusedField == FieldRecipes {
		recipeSection := styles.Section{Title: "Recipes", Hint: "enter to apply", Rows: m.recipeRows(sectionWidth - 2), Width: sectionWidth, Focused: true}.Render()
		b.WriteString("\n" + contentPadding.Render(recipeSection) + "\n")
	}
	if m.notice != "" {
		b.WriteString(contentPadding.Render(styles.WarningStyle.Render(m.notice)) + "\n")
	}
	b.WriteString(contentPadding.Render(styles.HintStyle.Render("ctrl+r recipes · ctrl+s save · esc cancel")))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(editorWidth)

	return boxStyle.Render(b.String())
}

// tagRows lays the tags out as chips, wrapping at width.
func (m Model) tagRows(width int) []string {
	tags := m.state.Set.Tags()
	if len(tags) == 0 {
		return []string{styles.HintStyle.Render("  (no tags)")}
	}
	var rows []string
	line := " "
	for _, tag := range tags {
		chip := styles.TagStyle(tag).Render("[" + styles.TruncateString(tag, width-4) + "]")
		if line != " " && lipgloss.Width(line)+lipgloss.Width(chip) > width {
			rows = append(rows, line)
			line = " "
		}
		line += chip + " "
	}
	return append(rows, line)
}

func (m Model) suggestionRows(width int) []string {
	var rows []string
	for i, s := range m.state.Suggestions {
		if i == maxSuggestions {
			rows = append(rows, styles.HintStyle.Render(fmt.Sprintf("   … %d more", len(m.state.Suggestions)-maxSuggestions)))
			break
		}
		prefix := "   "
		if i == m.state.Highlighted {
			prefix = " " + styles.SelectionIndicatorStyle.Render(">") + " "
		}
		rows = append(rows, prefix+styles.TagStyle(s).Render(styles.TruncateString(s, width-3)))
	}
	return rows
}

func (m Model) recipeRows(width int) []string {
	rows := make([]string, 0, len(m.recipes))
	for i, r := range m.recipes {
		prefix := "   "
		if i == m.recipeCursor {
			prefix = " " + styles.SelectionIndicatorStyle.Render(">") + " "
		}
		label := fmt.Sprintf("%s (%s)", r.Name, strings.Join(r.Tags, ", "))
		rows = append(rows, prefix+styles.TruncateString(label, width-3))
	}
	return rows
}

// Overlay renders the tag editor on top of a background view.
func (m Model) Overlay(background string) string {
	editorBox := m.View()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			editorBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, editorBox, background)
}

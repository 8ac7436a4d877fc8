// Package modal provides the confirmation dialog of the console. It asks one
// yes/no question about a pending admin.Confirmation.
package modal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javierhbr/test-inventory-sub000/internal/admin"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/overlay"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/styles"
)

const minWidth = 40

// SubmitMsg is sent when the user accepts the dialog.
type SubmitMsg struct{}

// CancelMsg is sent when the user declines the dialog.
type CancelMsg struct{}

// Button identifies the focused button.
type Button int

const (
	ButtonConfirm Button = iota
	ButtonCancel
)

// Model is the dialog state.
type Model struct {
	title   string
	message string
	focused Button
	width   int
	height  int
}

// New builds the dialog for a pending console confirmation. Every kind is
// destructive, so confirm is rendered as a danger button.
func New(c admin.Confirmation) Model {
	m := Model{focused: ButtonConfirm}
	if c.Kind == admin.ConfirmDiscard {
		m.title = "Discard changes"
		m.message = "Your edits have not been saved. Discard them?"
		if c.Label != "" {
			m.message = fmt.Sprintf("Your edits have not been saved. Discard them and open %q?", c.Label)
		}
		return m
	}
	noun := c.Kind.Noun()
	m.title = "Delete " + noun
	m.message = fmt.Sprintf("Delete %s %q? This cannot be undone.", noun, c.Label)
	return m
}

// Title returns the dialog title.
func (m Model) Title() string { return m.title }

// Message returns the question asked.
func (m Model) Message() string { return m.message }

// Focused returns the focused button.
func (m Model) Focused() Button { return m.focused }

// Update handles keys: y/n answer directly, enter presses the focused button.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "left", "right", "h", "l":
			m.focused = 1 - m.focused
		case "enter":
			if m.focused == ButtonCancel {
				return m, cancel
			}
			return m, submit
		case "y", "Y":
			return m, submit
		case "n", "N", "esc":
			return m, cancel
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

func submit() tea.Msg { return SubmitMsg{} }

func cancel() tea.Msg { return CancelMsg{} }

// View renders the dialog box without the overlay.
func (m Model) View() string {
	width := max(minWidth, lipgloss.Width(m.title))
	boxWidth := width + 2

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render(m.title)
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", boxWidth))
	message := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Width(width).Render(m.message)
	body := lipgloss.NewStyle().Padding(1, 1).Render(message + "\n\n" + m.buttons())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(title + "\n" + divider + "\n" + body)
}

func (m Model) buttons() string {
	confirm, cancel := styles.DangerButtonStyle, styles.SecondaryButtonStyle
	if m.focused == ButtonConfirm {
		confirm = styles.DangerButtonFocusedStyle
	} else {
		cancel = styles.SecondaryButtonFocusedStyle
	}
	return confirm.Render("Confirm (y)") + "  " + cancel.Render("Cancel (n)")
}

// Overlay renders the dialog centered on bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize records the screen size used for centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

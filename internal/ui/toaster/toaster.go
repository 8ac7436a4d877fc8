// Package toaster provides a notification toast overlay component.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javierhbr/test-inventory-sub000/internal/ui/overlay"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/styles"
)

// Style determines the visual appearance of the toast.
type Style int

const (
	// StyleSuccess shows ✅ with green border.
	StyleSuccess Style = iota
	// StyleError shows ❌ with red border. Used for failed registry saves.
	StyleError
	// StyleInfo shows ℹ️ with blue border, e.g. after a hot reload.
	StyleInfo
	// StyleWarn shows ⚠️ with yellow border, e.g. a reload refused over unsaved edits.
	StyleWarn
)

// Durations before a toast is dismissed.
const (
	DefaultDuration = 3 * time.Second
	ErrorDuration   = 6 * time.Second
)

// Duration returns how long a toast of this style stays visible.
func (s Style) Duration() time.Duration {
	if s == StyleError || s == StyleWarn {
		return ErrorDuration
	}
	return DefaultDuration
}

// ShowMsg asks the root model to show a toast.
type ShowMsg struct {
	Message string
	Style   Style
}

// Notify returns a command that emits ShowMsg.
func Notify(message string, style Style) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Message: message, Style: style}
	}
}

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	width   int
	height  int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays a toast with the given message and style.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the text of the visible toast.
func (m Model) Message() string {
	return m.message
}

// Style returns the style of the visible toast.
func (m Model) Style() Style {
	return m.style
}

// SetSize updates the viewport dimensions for overlay positioning.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	if m.width > 0 {
		style = style.MaxWidth(m.width - 4)
	}

	var content string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.ToastBorderErrorColor)
		content = "❌ " + m.message
	case StyleInfo:
		style = style.BorderForeground(styles.ToastBorderInfoColor)
		content = "ℹ️ " + m.message
	case StyleWarn:
		style = style.BorderForeground(styles.ToastBorderWarnColor)
		content = "⚠️ " + m.message
	default:
		style = style.BorderForeground(styles.ToastBorderSuccessColor)
		content = "✅ " + m.message
	}

	return style.Render(content)
}

// Layer returns the toast as a bottom-centered overlay layer.
func (m Model) Layer() overlay.Layer {
	return overlay.Layer{Content: m.View(), Position: overlay.Bottom, PadY: 1}
}

// Overlay renders the toast on top of a background view.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Stack(bg, width, height, m.Layer())
}

// DismissMsg signals that the toast should be dismissed.
type DismissMsg struct{}

// ScheduleDismiss returns a command that dismisses the toast after a duration.
func ScheduleDismiss(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{}
	})
}

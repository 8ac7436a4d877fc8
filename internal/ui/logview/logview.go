// Package logview provides the debug log panel of the console. It subscribes
// to the log broker and keeps the most recent entries in memory.
package logview

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javierhbr/test-inventory-sub000/internal/log"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/overlay"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/styles"
)

const (
	maxEntries        = 500
	viewportMaxHeight = 20
	viewportMinHeight = 5
	boxMaxWidth       = 140
	boxMinWidth       = 40
)

// CloseMsg is sent when the panel closes itself.
type CloseMsg struct{}

// Model is the log panel state.
type Model struct {
	visible  bool
	minLevel log.Level
	entries  []string

	listener *log.LogListener
	cancel   context.CancelFunc

	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden log panel.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// StartListening subscribes to the log broker. It returns nil when logging
// was never initialized.
func (m *Model) StartListening() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	l := log.NewListener(ctx)
	if l == nil {
		cancel()
		return nil
	}
	m.listener = l
	m.cancel = cancel
	return l.Next()
}

// StopListening ends the subscription.
func (m *Model) StopListening() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Update collects log events and, while visible, handles keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case log.LogEvent:
		m = m.Append(msg.Payload)
		if m.listener != nil {
			return m, m.listener.Next()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "c":
			m.entries = nil
		case "d":
			m.minLevel = log.LevelDebug
		case "i":
			m.minLevel = log.LevelInfo
		case "w":
			m.minLevel = log.LevelWarn
		case "e":
			m.minLevel = log.LevelError
		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "ctrl+x", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		default:
			return m, nil
		}
		m.refresh()
	}
	return m, nil
}

// Append records one entry, dropping the oldest past the buffer size.
func (m Model) Append(entry string) Model {
	entry = strings.TrimSuffix(entry, "\n")
	entries := append(slices.Clip(m.entries), entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	m.entries = entries
	if m.visible {
		m.refresh()
	}
	return m
}

// Entries returns the entries passing the level filter.
func (m Model) Entries() []string {
	var out []string
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// Visible reports whether the panel is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle shows or hides the panel.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
	}
}

// SetSize updates the panel's knowledge of the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refresh()
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	m.viewport = viewport.New(m.contentWidth(), h)
	m.viewport.SetContent(m.content())
	m.viewport.GotoBottom()
}

func (m Model) content() string {
	entries := m.Entries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No logs to display")
	}
	width := m.contentWidth()
	lines := make([]string, len(entries))
	for i, e := range entries {
		if ansi.StringWidth(e) > width {
			e = ansi.Truncate(e, width-3, "...")
		}
		lines[i] = lipgloss.NewStyle().Foreground(levelColor(levelOf(e))).Render(e)
	}
	return strings.Join(lines, "\n")
}

// View renders the panel.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Logs")

	body := strings.Join([]string{title, divider, m.viewport.View(), divider, m.filterHint()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(body)
}

// Overlay renders the panel centered over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.View(), bg)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		level log.Level
		label string
	}{
		{log.LevelDebug, "[d] Debug"},
		{log.LevelInfo, "[i] Info"},
		{log.LevelWarn, "[w] Warn"},
		{log.LevelError, "[e] Error"},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

// levelOf reads the level tag written by the log package. Entries without
// one are treated as errors so they are never filtered out.
func levelOf(entry string) log.Level {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l
		}
	}
	return log.LevelError
}

func levelColor(l log.Level) lipgloss.TerminalColor {
	switch l {
	case log.LevelError:
		return styles.StatusErrorColor
	case log.LevelWarn:
		return styles.StatusWarningColor
	case log.LevelInfo:
		return styles.ToastBorderInfoColor
	default:
		return styles.TextMutedColor
	}
}

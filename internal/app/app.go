// Package app contains the root application model of the administration
// console.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/javierhbr/test-inventory-sub000/internal/admin"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/keys"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/console"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/logview"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/markdown"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/overlay"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/styles"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/toaster"
	"github.com/javierhbr/test-inventory-sub000/internal/watcher"
)

// saveTimeout bounds one registry write. previewWidth wraps recipe previews.
const (
	saveTimeout  = 10 * time.Second
	previewWidth = 60
)

// RegistryService persists console changes and reloads the registry file.
// *application/registry.RegistryService implements it.
type RegistryService interface {
	Save(ctx context.Context, change admin.Change) (registry.Registry, error)
	Reload(ctx context.Context) (registry.Registry, error)
}

// Config holds what the root model needs beyond the registry itself.
type Config struct {
	// RegistryPath is watched for external edits when AutoReload is set.
	RegistryPath       string
	AutoReload         bool
	AutoReloadDebounce time.Duration

	LineOfBusiness     string
	ShowLineOfBusiness bool
	MarkdownStyle      string

	// Debug enables the log panel (ctrl+x).
	Debug bool

	// ConsoleOptions are passed through to the console state machine.
	ConsoleOptions []admin.Option
}

// SaveResultMsg reports the outcome of persisting a console change.
type SaveResultMsg struct {
	Change admin.Change
	Err    error
}

// ReloadResultMsg carries a registry read back from disk.
type ReloadResultMsg struct {
	Registry registry.Registry
	Err      error
	// Manual is set when the user asked for the reload.
	Manual bool
}

// registryChangedMsg is sent when the watcher sees the registry file change.
type registryChangedMsg struct{}

// Model is the root application state.
type Model struct {
	console console.Model
	toaster toaster.Model
	logs    logview.Model
	help    help.Model
	keys    keys.ConsoleKeyMap

	service  RegistryService
	showHelp bool
	debug    bool

	logListenCmd tea.Cmd

	// Changes are saved one at a time in the order the console made them.
	saving  bool
	pending []admin.Change

	// File watcher for hot reload
	watcherHandle *watcher.Watcher
	changes       <-chan struct{}

	width  int
	height int
}

// New creates the root model over an already loaded registry.
func New(reg registry.Registry, service RegistryService, cfg Config) Model {
	opts := []console.Option{
		console.WithLineOfBusiness(cfg.LineOfBusiness),
		console.WithShowLineOfBusiness(cfg.ShowLineOfBusiness),
		console.WithConsoleOptions(cfg.ConsoleOptions...),
	}
	if md, err := markdown.New(previewWidth, cfg.MarkdownStyle); err == nil {
		opts = append(opts, console.WithMarkdown(md))
	} else {
		log.Warn(log.CatUI, "Markdown renderer unavailable", "style", cfg.MarkdownStyle, "error", err)
	}

	m := Model{
		console: console.New(reg, opts...),
		toaster: toaster.New(),
		logs:    logview.New(),
		help:    help.New(),
		keys:    keys.DefaultConsoleKeyMap(),
		service: service,
		debug:   cfg.Debug,
	}
	m.help.ShowAll = true

	if cfg.Debug {
		m.logListenCmd = m.logs.StartListening()
	}

	if cfg.AutoReload && cfg.RegistryPath != "" {
		wcfg := watcher.DefaultConfig(cfg.RegistryPath)
		if cfg.AutoReloadDebounce > 0 {
			wcfg.DebounceDur = cfg.AutoReloadDebounce
		}
		// The console works without hot reload, so watcher errors are only logged.
		w, err := watcher.New(wcfg)
		if err == nil {
			changes, startErr := w.Start()
			if startErr == nil {
				m.watcherHandle = w
				m.changes = changes
			} else {
				_ = w.Stop()
				err = startErr
			}
		}
		if err != nil {
			log.Warn(log.CatWatcher, "Hot reload disabled", "path", cfg.RegistryPath, "error", err)
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.console.Init(), m.waitForChange(), m.logListenCmd)
}

// Console returns the console model.
func (m Model) Console() console.Model {
	return m.console
}

// Toast returns the visible toast message, if any.
func (m Model) Toast() (string, toaster.Style, bool) {
	return m.toaster.Message(), m.toaster.Style(), m.toaster.Visible()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.console = m.console.SetSize(msg.Width, msg.Height)
		m.toaster = m.toaster.SetSize(msg.Width, msg.Height)
		m.logs.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case log.LogEvent:
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.debug && key.Matches(msg, m.keys.Logs) {
			m.logs.Toggle()
			return m, nil
		}
		if m.logs.Visible() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
				m.showHelp = false
			}
			return m, nil
		}
		if !m.console.Capturing() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.showHelp = true
				return m, nil
			case key.Matches(msg, m.keys.Reload):
				return m, m.reload(true)
			}
		}

	case console.ChangeMsg:
		if m.service == nil {
			return m, nil
		}
		if m.saving {
			log.Debug(log.CatConsole, "Queueing change", "reason", msg.Change.Reason, "queued", len(m.pending)+1)
			m.pending = append(m.pending, msg.Change)
			return m, nil
		}
		log.Debug(log.CatConsole, "Persisting change", "reason", msg.Change.Reason)
		m.saving = true
		return m, m.save(msg.Change)

	case SaveResultMsg:
		if msg.Err != nil {
			// Queued changes were made on top of the failed one.
			if len(m.pending) > 0 {
				log.Warn(log.CatConsole, "Dropping queued changes after failed save", "dropped", len(m.pending))
			}
			m.saving = false
			m.pending = nil
			m.console = m.console.Rollback(msg.Change)
			return m, toaster.Notify(fmt.Sprintf("Save failed: %v", msg.Err), toaster.StyleError)
		}
		if len(m.pending) == 0 {
			m.saving = false
			return m, nil
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		return m, m.save(next)

	case registryChangedMsg:
		if m.saving {
			// Our own write; the console already shows it.
			return m, m.waitForChange()
		}
		if m.console.Dirty() {
			log.Info(log.CatWatcher, "Registry changed on disk while editing")
			return m, tea.Batch(
				toaster.Notify("Registry changed on disk. Save or cancel your edits, then press ctrl+r.", toaster.StyleWarn),
				m.waitForChange(),
			)
		}
		return m, tea.Batch(m.reload(false), m.waitForChange())

	case ReloadResultMsg:
		if msg.Err != nil {
			return m, toaster.Notify(fmt.Sprintf("Reload failed: %v", msg.Err), toaster.StyleError)
		}
		next, ok := m.console.Reload(msg.Registry)
		if !ok {
			return m, toaster.Notify("Unsaved changes. Save or cancel them before reloading.", toaster.StyleWarn)
		}
		m.console = next
		if msg.Manual {
			return m, toaster.Notify("Registry reloaded", toaster.StyleInfo)
		}
		return m, nil

	case toaster.ShowMsg:
		m.toaster = m.toaster.Show(msg.Message, msg.Style)
		return m, toaster.ScheduleDismiss(msg.Style.Duration())

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil

	case logview.CloseMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

// save persists change off the update loop.
func (m Model) save(change admin.Change) tea.Cmd {
	if m.service == nil {
		return nil
	}
	svc := m.service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		_, err := svc.Save(ctx, change)
		return SaveResultMsg{Change: change, Err: err}
	}
}

func (m Model) reload(manual bool) tea.Cmd {
	if m.service == nil {
		return nil
	}
	svc := m.service
	return func() tea.Msg {
		reg, err := svc.Reload(context.Background())
		return ReloadResultMsg{Registry: reg, Err: err, Manual: manual}
	}
}

// waitForChange blocks on the watcher channel. It returns nil when hot reload
// is off.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return registryChangedMsg{}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.console.View()

	if m.showHelp {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Center,
		}, m.helpView(), view)
	}

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	if m.debug && m.logs.Visible() {
		view = m.logs.Overlay(view)
	}

	return zone.Scan(view)
}

func (m Model) helpView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render("Keys")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1).
		Render(title + "\n\n" + m.help.View(m.keys))
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.logs.StopListening()
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}

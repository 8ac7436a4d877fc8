// Package console is the bubbletea front end of the registry administration
// console. All state transitions are delegated to admin.Console; this package
// maps keys and mouse clicks onto them and renders the result.
package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/javierhbr/test-inventory-sub000/internal/admin"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/keys"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/markdown"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/modal"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/toaster"
)

// Pane identifies which part of the console has keyboard focus.
type Pane int

const (
	PaneGroups Pane = iota
	PaneItems
	PaneForm
)

// ChangeMsg carries a committed registry mutation for the application to
// persist.
type ChangeMsg struct {
	Change admin.Change
}

// Option configures a Model.
type Option func(*Model)

// WithLineOfBusiness sets the line of business given to newly created groups.
func WithLineOfBusiness(lob string) Option {
	return func(m *Model) {
		m.lineOfBusiness = lob
	}
}

// WithShowLineOfBusiness toggles the line of business column of the group list.
func WithShowLineOfBusiness(show bool) Option {
	return func(m *Model) {
		m.showLOB = show
	}
}

// WithMarkdown sets the renderer used for recipe descriptions.
func WithMarkdown(r *markdown.Renderer) Option {
	return func(m *Model) {
		m.md = r
	}
}

// WithConsoleOptions passes options through to admin.New.
func WithConsoleOptions(opts ...admin.Option) Option {
	return func(m *Model) {
		m.adminOpts = append(m.adminOpts, opts...)
	}
}

// Model is the console UI state.
type Model struct {
	console admin.Console
	keys    keys.ConsoleKeyMap

	pane        Pane
	groupCursor int
	itemCursor  int

	form   form
	rename textinput.Model
	dialog *modal.Model

	md             *markdown.Renderer
	lineOfBusiness string
	showLOB        bool
	adminOpts      []admin.Option

	width  int
	height int
}

// New creates a console over reg.
func New(reg registry.Registry, opts ...Option) Model {
	m := Model{
		keys:    keys.DefaultConsoleKeyMap(),
		showLOB: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.console = admin.New(reg, m.adminOpts...)

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64
	m.rename = ti
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Console returns the underlying state machine.
func (m Model) Console() admin.Console {
	return m.console
}

// Registry returns the snapshot the console currently shows.
func (m Model) Registry() registry.Registry {
	return m.console.Registry()
}

// Pane returns the focused pane.
func (m Model) Pane() Pane {
	return m.pane
}

// Dirty reports whether a draft has unsaved edits.
func (m Model) Dirty() bool {
	return m.console.Dirty()
}

// Capturing reports whether keys are going to a text field or dialog, so the
// caller must not treat them as global shortcuts.
func (m Model) Capturing() bool {
	_, renaming := m.console.Renaming()
	return renaming || m.dialog != nil || m.pane == PaneForm
}

// SetSize updates the viewport size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	if m.dialog != nil {
		m.dialog.SetSize(width, height)
	}
	return m
}

// Reload swaps in a registry read from disk. It is refused while a draft has
// unsaved edits.
func (m Model) Reload(reg registry.Registry) (Model, bool) {
	next, ok := m.console.Reload(reg)
	if !ok {
		return m, false
	}
	m.console = next
	return m.sync(), true
}

// Rollback restores the snapshot a failed save started from.
func (m Model) Rollback(change admin.Change) Model {
	m.console = m.console.Rollback(change)
	m.dialog = nil
	return m.sync()
}

// Update handles messages for the console.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case modal.SubmitMsg:
		return m.confirm()

	case modal.CancelMsg:
		m.console = m.console.CancelConfirm()
		m.dialog = nil
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.dialog != nil {
			d, cmd := m.dialog.Update(msg)
			m.dialog = &d
			return m, cmd
		}
		if _, renaming := m.console.Renaming(); renaming {
			return m.updateRename(msg)
		}
		switch m.pane {
		case PaneForm:
			return m.updateForm(msg)
		case PaneItems:
			return m.updateItems(msg)
		default:
			return m.updateGroups(msg)
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease || m.dialog != nil {
		return m, nil
	}
	for i, g := range m.console.Groups() {
		if z := zone.Get(groupZoneID(g.Key)); z != nil && z.InBounds(msg) {
			m.groupCursor = i
			return m.selectGroup(g.Key)
		}
	}
	return m, nil
}

func (m Model) updateGroups(msg tea.KeyMsg) (Model, tea.Cmd) {
	groups := m.console.Groups()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.groupCursor > 0 {
			m.groupCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.groupCursor < len(groups)-1 {
			m.groupCursor++
		}
	case key.Matches(msg, m.keys.SelectItem):
		if m.groupCursor < len(groups) {
			return m.selectGroup(groups[m.groupCursor].Key)
		}
	case key.Matches(msg, m.keys.FocusNext):
		if m.console.Selected() != "" {
			m.pane = PaneItems
		}
	case key.Matches(msg, m.keys.NewRuleGroup):
		return m.createGroup(registry.KindRuleGroup)
	case key.Matches(msg, m.keys.NewRecipeGroup):
		return m.createGroup(registry.KindRecipeGroup)
	case key.Matches(msg, m.keys.RenameGroup):
		next, err := m.console.BeginRename()
		if err != nil {
			return m, notifyErr(err)
		}
		m.console = next
		return m.startRename()
	case key.Matches(msg, m.keys.DeleteGroup):
		next, err := m.console.RequestDeleteGroup()
		if err != nil {
			return m, notifyErr(err)
		}
		m.console = next
		return m.openDialog(), nil
	case key.Matches(msg, m.keys.NewItem):
		return m.newItem()
	}
	return m, nil
}

func (m Model) updateItems(msg tea.KeyMsg) (Model, tea.Cmd) {
	ids := m.itemIDs()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.itemCursor > 0 {
			m.itemCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.itemCursor < len(ids)-1 {
			m.itemCursor++
		}
	case key.Matches(msg, m.keys.FocusNext), key.Matches(msg, m.keys.Escape):
		m.pane = PaneGroups
	case key.Matches(msg, m.keys.SelectItem):
		if m.itemCursor < len(ids) {
			return m.editItem(ids[m.itemCursor])
		}
	case key.Matches(msg, m.keys.NewItem):
		return m.newItem()
	case key.Matches(msg, m.keys.DeleteItem):
		if m.itemCursor >= len(ids) {
			return m, nil
		}
		next, err := m.console.RequestDeleteItem(ids[m.itemCursor])
		if err != nil {
			return m, notifyErr(err)
		}
		m.console = next
		return m.openDialog(), nil
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		next, change, err := m.console.SaveDraft()
		if err != nil {
			return m, notifyErr(err)
		}
		m.console = next
		m.pane = PaneItems
		m = m.sync()
		log.Info(log.CatConsole, "Saved draft", "reason", change.Reason)
		cmds := []tea.Cmd{emitChange(*change)}
		if len(change.Warnings) > 0 {
			cmds = append(cmds, toaster.Notify(strings.Join(change.Warnings, "; "), toaster.StyleWarn))
		}
		return m, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.Escape):
		m.console = m.console.CancelDraft()
		m.pane = PaneItems
		return m.sync(), nil
	case key.Matches(msg, m.keys.NextField):
		m.form = m.form.next()
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.form = m.form.prev()
		return m, nil
	}

	f, cmd := m.form.update(msg)
	m.form = f
	next, err := m.console.UpdateDraft(m.form.apply)
	if err != nil {
		return m, tea.Batch(cmd, notifyErr(err))
	}
	m.console = next
	return m, cmd
}

func (m Model) updateRename(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		next, change, err := m.console.CommitRename(m.rename.Value())
		m.console = next
		m.rename.Blur()
		m = m.sync()
		if err != nil {
			if errors.Is(err, registry.ErrNameUnchanged) {
				return m, nil
			}
			return m, notifyErr(err)
		}
		return m, emitChange(*change)
	case tea.KeyEsc:
		m.console = m.console.CancelRename()
		m.rename.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	m.console = m.console.SetRenameBuffer(m.rename.Value())
	return m, cmd
}

func (m Model) selectGroup(key string) (Model, tea.Cmd) {
	next, err := m.console.SelectGroup(key)
	if err != nil {
		return m, notifyErr(err)
	}
	m.console = next
	if _, pending := m.console.Pending(); pending {
		return m.openDialog(), nil
	}
	m.pane = PaneItems
	m.itemCursor = 0
	return m.sync(), nil
}

func (m Model) createGroup(kind registry.GroupKind) (Model, tea.Cmd) {
	next, change, err := m.console.CreateGroup(kind, m.lineOfBusiness, registry.CategoryFlavor)
	if err != nil {
		return m, notifyErr(err)
	}
	m.console = next
	m.pane = PaneGroups
	m = m.sync()
	log.Info(log.CatConsole, "Created group", "key", next.Selected(), "kind", kind.String())
	m, cmd := m.startRename()
	return m, tea.Batch(cmd, emitChange(change))
}

func (m Model) startRename() (Model, tea.Cmd) {
	buf, _ := m.console.Renaming()
	m.rename.SetValue(buf)
	m.rename.CursorEnd()
	cmd := m.rename.Focus()
	return m, cmd
}

func (m Model) newItem() (Model, tea.Cmd) {
	kind, ok := m.console.SelectedKind()
	if !ok {
		return m, notifyErr(admin.ErrNoSelection)
	}
	var (
		next admin.Console
		err  error
	)
	if kind == registry.KindRecipeGroup {
		next, err = m.console.NewRecipe()
	} else {
		next, err = m.console.NewRule()
	}
	if err != nil {
		return m, notifyErr(err)
	}
	m.console = next
	return m.openForm()
}

func (m Model) editItem(id string) (Model, tea.Cmd) {
	kind, _ := m.console.SelectedKind()
	var (
		next admin.Console
		err  error
	)
	if kind == registry.KindRecipeGroup {
		next, err = m.console.EditRecipe(id)
	} else {
		next, err = m.console.EditRule(id)
	}
	if err != nil {
		return m, notifyErr(err)
	}
	m.console = next
	return m.openForm()
}

func (m Model) openForm() (Model, tea.Cmd) {
	d, ok := m.console.Draft()
	if !ok {
		return m, nil
	}
	m.form = newForm(d)
	m.pane = PaneForm
	return m, textinput.Blink
}

func (m Model) openDialog() Model {
	pending, ok := m.console.Pending()
	if !ok {
		return m
	}
	d := modal.New(pending)
	d.SetSize(m.width, m.height)
	m.dialog = &d
	return m
}

func (m Model) confirm() (Model, tea.Cmd) {
	m.dialog = nil
	next, change, err := m.console.Confirm()
	if err != nil {
		return m, notifyErr(err)
	}
	m.console = next
	if _, editing := m.console.Draft(); !editing && m.pane == PaneForm {
		m.pane = PaneItems
	}
	if m.console.Selected() == "" {
		m.pane = PaneGroups
	}
	m = m.sync()
	if change == nil {
		return m, nil
	}
	log.Info(log.CatConsole, "Confirmed", "reason", change.Reason)
	return m, emitChange(*change)
}

// sync clamps cursors to the current snapshot and points the group cursor
// at the selected group.
func (m Model) sync() Model {
	groups := m.console.Groups()
	if sel := m.console.Selected(); sel != "" {
		for i, g := range groups {
			if g.Key == sel {
				m.groupCursor = i
			}
		}
	}
	m.groupCursor = clamp(m.groupCursor, len(groups))
	m.itemCursor = clamp(m.itemCursor, len(m.itemIDs()))
	if _, editing := m.console.Draft(); !editing && m.pane == PaneForm {
		m.pane = PaneItems
	}
	if m.console.Selected() == "" && m.pane != PaneGroups {
		m.pane = PaneGroups
	}
	return m
}

// itemIDs lists the member ids of the selected group in display order.
func (m Model) itemIDs() []string {
	reg := m.console.Registry()
	sel := m.console.Selected()
	if g, ok := reg.RuleGroup(sel); ok {
		ids := make([]string, len(g.Rules))
		for i, r := range g.Rules {
			ids[i] = r.ID
		}
		return ids
	}
	if g, ok := reg.RecipeGroup(sel); ok {
		ids := make([]string, len(g.Recipes))
		for i, r := range g.Recipes {
			ids[i] = r.ID
		}
		return ids
	}
	return nil
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func groupZoneID(key string) string {
	return "console-group-" + key
}

func emitChange(c admin.Change) tea.Cmd {
	return func() tea.Msg {
		return ChangeMsg{Change: c}
	}
}

func notifyErr(err error) tea.Cmd {
	log.Debug(log.CatConsole, "Console action refused", "error", err)
	return toaster.Notify(fmt.Sprint(err), toaster.StyleError)
}

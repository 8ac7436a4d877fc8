package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javierhbr/test-inventory-sub000/internal/admin"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/testutil"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/console"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/toaster"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fakeService struct {
	mu        sync.Mutex
	saved     []admin.Change
	saveErr   error
	reloadReg registry.Registry
	reloadErr error
}

func (f *fakeService) Save(_ context.Context, change admin.Change) (registry.Registry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return change.Before, f.saveErr
	}
	f.saved = append(f.saved, change)
	return change.After, nil
}

func (f *fakeService) Reload(context.Context) (registry.Registry, error) {
	return f.reloadReg, f.reloadErr
}

func newApp(t *testing.T, svc *fakeService, cfg Config) Model {
	t.Helper()
	m := New(testutil.StandardRegistry(t), svc, cfg)
	t.Cleanup(func() { _ = m.Close() })
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain feeds cmd's messages back into the model until no commands remain.
// The dismiss timer started by a toast is dropped so the toast stays visible.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}
		var next tea.Cmd
		m, next = update(t, m, msg)
		if _, ok := msg.(toaster.ShowMsg); ok {
			continue
		}
		queue = append(queue, next)
	}
	return m
}

// deleteFirstRule selects retail-flavors and confirms deleting its first rule.
func deleteFirstRule(t *testing.T, m Model) Model {
	t.Helper()
	for _, msg := range []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter}, keyRunes("d")} {
		m, _ = update(t, m, msg)
	}
	m, cmd := update(t, m, keyRunes("y"))
	return drain(t, m, cmd)
}

func TestApp_WindowSize(t *testing.T) {
	m := newApp(t, &fakeService{}, Config{})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Contains(t, m.View(), "Groups")
}

func TestApp_QuitWhenNotCapturing(t *testing.T) {
	m := newApp(t, &fakeService{}, Config{})

	_, cmd := update(t, m, keyRunes("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QTypesIntoForm(t *testing.T) {
	m := newApp(t, &fakeService{}, Config{})
	for _, msg := range []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter}, keyRunes("n")} {
		m, _ = update(t, m, msg)
	}
	require.True(t, m.Console().Capturing())

	m, _ = update(t, m, keyRunes("q"))

	d, ok := m.Console().Console().Draft()
	require.True(t, ok)
	assert.Equal(t, "q", d.Rule.Key)
}

func TestApp_CtrlCAlwaysQuits(t *testing.T) {
	m := newApp(t, &fakeService{}, Config{})
	m, _ = update(t, m, keyRunes("g"))
	require.True(t, m.Console().Capturing())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ChangeIsSaved(t *testing.T) {
	svc := &fakeService{}
	m := newApp(t, svc, Config{})

	m = deleteFirstRule(t, m)

	require.Len(t, svc.saved, 1)
	assert.Contains(t, svc.saved[0].Reason, "delete rule customer-type")
	g, _ := m.Console().Registry().RuleGroup("retail-flavors")
	assert.Len(t, g.Rules, 1)
	_, _, visible := m.Toast()
	assert.False(t, visible)
}

func TestApp_FailedSaveRollsBack(t *testing.T) {
	svc := &fakeService{saveErr: errors.New("disk full")}
	m := newApp(t, svc, Config{})

	m = deleteFirstRule(t, m)

	g, _ := m.Console().Registry().RuleGroup("retail-flavors")
	assert.Len(t, g.Rules, 2)
	msg, style, visible := m.Toast()
	require.True(t, visible)
	assert.Equal(t, toaster.StyleError, style)
	assert.Contains(t, msg, "disk full")
}

func TestApp_ManualReload(t *testing.T) {
	reloaded := testutil.NewRegistryBuilder(t).
		WithRuleGroup("payments-flavors", "payments", registry.CategoryFlavor).
		WithRule("rail").
		Build()
	m := newApp(t, &fakeService{reloadReg: reloaded}, Config{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = drain(t, m, cmd)

	assert.True(t, m.Console().Registry().HasKey("payments-flavors"))
	assert.False(t, m.Console().Registry().HasKey("retail-flavors"))
	msg, style, visible := m.Toast()
	require.True(t, visible)
	assert.Equal(t, toaster.StyleInfo, style)
	assert.Equal(t, "Registry reloaded", msg)
}

func TestApp_ReloadError(t *testing.T) {
	m := newApp(t, &fakeService{reloadErr: errors.New("bad yaml")}, Config{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = drain(t, m, cmd)

	msg, style, _ := m.Toast()
	assert.Equal(t, toaster.StyleError, style)
	assert.Contains(t, msg, "bad yaml")
	assert.True(t, m.Console().Registry().HasKey("retail-flavors"))
}

func TestApp_FileChangeWhileDirtyWarns(t *testing.T) {
	m := newApp(t, &fakeService{reloadReg: registry.New(nil, nil)}, Config{})
	for _, msg := range []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter}, keyRunes("n"), keyRunes("x")} {
		m, _ = update(t, m, msg)
	}
	require.True(t, m.Console().Dirty())

	m, cmd := update(t, m, registryChangedMsg{})
	m = drain(t, m, cmd)

	_, style, visible := m.Toast()
	require.True(t, visible)
	assert.Equal(t, toaster.StyleWarn, style)
	assert.True(t, m.Console().Registry().HasKey("retail-flavors"))
}

func TestApp_FileChangeReloadsWhenClean(t *testing.T) {
	m := newApp(t, &fakeService{reloadReg: registry.New(nil, nil)}, Config{})

	m, cmd := update(t, m, registryChangedMsg{})
	m = drain(t, m, cmd)

	assert.Empty(t, m.Console().Console().Groups())
	_, _, visible := m.Toast()
	assert.False(t, visible)
}

func TestApp_ReloadRefusedWhileDirty(t *testing.T) {
	m := newApp(t, &fakeService{}, Config{})
	for _, msg := range []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter}, keyRunes("n"), keyRunes("x")} {
		m, _ = update(t, m, msg)
	}

	m, cmd := update(t, m, ReloadResultMsg{Registry: registry.New(nil, nil)})
	m = drain(t, m, cmd)

	assert.True(t, m.Console().Registry().HasKey("retail-flavors"))
	_, style, _ := m.Toast()
	assert.Equal(t, toaster.StyleWarn, style)
}

func TestApp_HelpToggle(t *testing.T) {
	m := newApp(t, &fakeService{}, Config{})

	m, _ = update(t, m, keyRunes("?"))
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keys")

	m, _ = update(t, m, keyRunes("q"))
	assert.True(t, m.showHelp, "keys are swallowed while help is open")

	m, _ = update(t, m, keyRunes("?"))
	assert.False(t, m.showHelp)
}

func TestApp_LogPanelOnlyInDebug(t *testing.T) {
	m := newApp(t, &fakeService{}, Config{})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, m.logs.Visible())

	m = newApp(t, &fakeService{}, Config{Debug: true})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.True(t, m.logs.Visible())
	assert.Contains(t, m.View(), "Logs")
}

func TestApp_ToastLifecycle(t *testing.T) {
	m := newApp(t, &fakeService{}, Config{})

	m, cmd := update(t, m, toaster.ShowMsg{Message: "hello", Style: toaster.StyleSuccess})
	require.NotNil(t, cmd)
	_, _, visible := m.Toast()
	require.True(t, visible)
	assert.Contains(t, m.View(), "hello")

	m, _ = update(t, m, toaster.DismissMsg{})
	_, _, visible = m.Toast()
	assert.False(t, visible)
}

func TestApp_ConsoleChangeWithoutService(t *testing.T) {
	m := New(testutil.StandardRegistry(t), nil, Config{})

	_, cmd := m.Update(console.ChangeMsg{})

	assert.Nil(t, cmd)
}

func TestApp_WatchesRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rule_groups: []\n"), 0o644))

	m := New(testutil.StandardRegistry(t), &fakeService{}, Config{RegistryPath: path, AutoReload: true})
	t.Cleanup(func() { _ = m.Close() })

	assert.NotNil(t, m.watcherHandle)
	assert.NotNil(t, m.changes)
	assert.NotNil(t, m.Init())
}

func TestApp_SavesRunOneAtATimeInOrder(t *testing.T) {
	svc := &fakeService{}
	m := newApp(t, svc, Config{})
	reg := m.Console().Registry()
	created, key := reg.CreateGroup(registry.KindRuleGroup, "retail", registry.CategoryFlavor, time.UnixMilli(1))
	renamed, err := created.RenameGroup(key, "retail-rules")
	require.NoError(t, err)
	create := admin.Change{Before: reg, After: created, Reason: "create"}
	rename := admin.Change{Before: created, After: renamed, Reason: "rename"}

	m, first := update(t, m, console.ChangeMsg{Change: create})
	require.NotNil(t, first)
	m, second := update(t, m, console.ChangeMsg{Change: rename})
	require.Nil(t, second, "second save waits for the first")
	require.Empty(t, svc.saved)

	m, next := update(t, m, first())
	require.Len(t, svc.saved, 1)
	require.NotNil(t, next)

	m, next = update(t, m, next())
	assert.Nil(t, next)
	require.Len(t, svc.saved, 2)
	assert.Equal(t, "create", svc.saved[0].Reason)
	assert.Equal(t, "rename", svc.saved[1].Reason)
	assert.False(t, m.saving)

	// Idle again: the next change saves right away.
	_, cmd := update(t, m, console.ChangeMsg{Change: admin.Change{Before: renamed, After: renamed, Reason: "noop"}})
	assert.NotNil(t, cmd)
}

func TestApp_FailedSaveDropsQueuedChanges(t *testing.T) {
	svc := &fakeService{saveErr: errors.New("disk full")}
	m := newApp(t, svc, Config{})
	reg := m.Console().Registry()
	created, key := reg.CreateGroup(registry.KindRuleGroup, "retail", registry.CategoryFlavor, time.UnixMilli(1))
	renamed, err := created.RenameGroup(key, "retail-rules")
	require.NoError(t, err)

	m, first := update(t, m, console.ChangeMsg{Change: admin.Change{Before: reg, After: created, Reason: "create"}})
	m, _ = update(t, m, console.ChangeMsg{Change: admin.Change{Before: created, After: renamed, Reason: "rename"}})

	m = drain(t, m, first)

	assert.Empty(t, svc.saved)
	assert.False(t, m.saving)
	assert.Empty(t, m.pending)
	assert.True(t, m.Console().Registry().Equal(reg))
	_, style, visible := m.Toast()
	require.True(t, visible)
	assert.Equal(t, toaster.StyleError, style)
}

func TestApp_OwnWriteDoesNotReload(t *testing.T) {
	m := newApp(t, &fakeService{reloadReg: registry.New(nil, nil)}, Config{})
	reg := m.Console().Registry()
	m, _ = update(t, m, console.ChangeMsg{Change: admin.Change{Before: reg, After: reg, Reason: "noop"}})

	m, cmd := update(t, m, registryChangedMsg{})
	m = drain(t, m, cmd)

	assert.True(t, m.Console().Registry().HasKey("retail-flavors"))
}

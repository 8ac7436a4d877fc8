package tageditor

import (
	"bytes"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/testutil"
)

func newEditor(t *testing.T, tags ...string) Model {
	t.Helper()
	reg := testutil.StandardRegistry(t)
	env := classification.EnvFor(reg, "", []string{"smoke", "regression"})
	return New("test/T-1", classification.NewSet(tags...), env, reg.RecipesFor("retail")).SetSize(100, 40)
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		if r == ' ' {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func TestTagEditor_New_OpensKeyTokens(t *testing.T) {
	m := newEditor(t)

	assert.Equal(t, FieldInput, m.FocusedField())
	assert.Equal(t, []string{"schedule:", "customer-type:", "account:"}, m.State().Suggestions)
	assert.False(t, m.Dirty())
}

func TestTagEditor_TypeAndCommit(t *testing.T) {
	m := typeText(newEditor(t), "customer-type:v")
	require.Equal(t, []string{"customer-type:vip"}, m.State().Suggestions)

	m, cmd := press(m, tea.KeyEnter)

	require.Nil(t, cmd)
	assert.Equal(t, []string{"customer-type:vip"}, m.Set().Tags())
	assert.Empty(t, m.State().Draft)
	assert.True(t, m.Dirty())
}

func TestTagEditor_CommaIsSeparator(t *testing.T) {
	m := typeText(newEditor(t), "acc")

	m = typeText(m, ",")

	assert.Equal(t, []string{"account:checking"}, m.Set().Tags())
	assert.Empty(t, m.State().Draft)
}

func TestTagEditor_CategoryTokenRefills(t *testing.T) {
	m := newEditor(t)

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)
	require.Equal(t, 1, m.State().Highlighted)
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, "customer-type:", m.State().Draft)
	assert.Equal(t, 0, m.Set().Len())
	assert.Equal(t, []string{"customer-type:vip", "customer-type:standard", "customer-type:new"}, m.State().Suggestions)
}

func TestTagEditor_SingularReplacementNotice(t *testing.T) {
	m := newEditor(t, "account:checking", "smoke")

	m = typeText(m, "account:savings")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, []string{"smoke", "account:savings"}, m.Set().Tags())
	assert.Equal(t, "account:savings replaced account:checking", m.Notice())
}

func TestTagEditor_UnmatchedSemanticNotice(t *testing.T) {
	m := typeText(newEditor(t), "Region:EMEA")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, []string{"region:emea"}, m.Set().Tags())
	assert.Equal(t, "region:emea matches no rule", m.Notice())
}

func TestTagEditor_BackspaceRemovesLastTagOnEmptyDraft(t *testing.T) {
	m := newEditor(t, "smoke", "account:checking")

	m, _ = press(m, tea.KeyBackspace)

	assert.Equal(t, []string{"smoke"}, m.Set().Tags())
}

func TestTagEditor_BackspaceEditsDraft(t *testing.T) {
	m := typeText(newEditor(t, "smoke"), "regr")

	m, _ = press(m, tea.KeyBackspace)

	assert.Equal(t, "reg", m.State().Draft)
	assert.Equal(t, []string{"smoke"}, m.Set().Tags())
}

func TestTagEditor_EditLastLoadsDraft(t *testing.T) {
	m := newEditor(t, "smoke", "account:checking")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})

	assert.Equal(t, []string{"smoke"}, m.Set().Tags())
	assert.Equal(t, "account:checking", m.State().Draft)
}

func TestTagEditor_EscapeClosesSuggestionsThenCancels(t *testing.T) {
	m := newEditor(t)
	require.NotEmpty(t, m.State().Suggestions)

	m, cmd := press(m, tea.KeyEsc)
	require.Nil(t, cmd)
	assert.Empty(t, m.State().Suggestions)

	_, cmd = press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, CancelMsg{}, cmd())
}

func TestTagEditor_Save(t *testing.T) {
	m := typeText(newEditor(t), "smoke")
	m, _ = press(m, tea.KeyEnter)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NotNil(t, cmd)
	msg, ok := cmd().(SaveMsg)
	require.True(t, ok)
	assert.True(t, msg.Changed)
	assert.Equal(t, []string{"smoke"}, msg.Set.Tags())
}

func TestTagEditor_SaveUnchanged(t *testing.T) {
	_, cmd := newEditor(t, "smoke").Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	msg := cmd().(SaveMsg)
	assert.False(t, msg.Changed)
}

func TestTagEditor_ApplyRecipe(t *testing.T) {
	m := newEditor(t, "customer-type:vip", "regression")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, FieldRecipes, m.FocusedField())
	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, FieldInput, m.FocusedField())
	assert.Equal(t, []string{"regression", "customer-type:new", "account:savings"}, m.Set().Tags())
	assert.Equal(t, `applied "New saver"`, m.Notice())
}

func TestTagEditor_RecipePickerEscape(t *testing.T) {
	m := newEditor(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m, cmd := press(m, tea.KeyEsc)

	assert.Nil(t, cmd)
	assert.Equal(t, FieldInput, m.FocusedField())
	assert.Equal(t, 0, m.Set().Len())
}

func TestTagEditor_View(t *testing.T) {
	m := typeText(newEditor(t, "smoke"), "customer-type:")

	view := m.View()

	assert.Contains(t, view, "test/T-1")
	assert.Contains(t, view, "[smoke]")
	assert.Contains(t, view, "customer-type:standard")
	assert.Contains(t, view, "enter or , to add")
}

func TestTagEditor_ViewMarksDirty(t *testing.T) {
	m := typeText(newEditor(t), "smoke")
	m, _ = press(m, tea.KeyEnter)

	assert.Contains(t, m.View(), "test/T-1 *")
}

func TestTagEditor_Overlay(t *testing.T) {
	m := newEditor(t)

	out := m.Overlay("")

	assert.Contains(t, out, "Add tag")
}

// program runs the editor as a standalone bubbletea program and quits when it
// saves or cancels.
type program struct {
	editor Model
	saved  *SaveMsg
}

func (p program) Init() tea.Cmd { return p.editor.Init() }

func (p program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SaveMsg:
		p.saved = &msg
		return p, tea.Quit
	case CancelMsg:
		return p, tea.Quit
	}
	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(msg)
	return p, cmd
}

func (p program) View() string { return p.editor.View() }

func TestTagEditor_Program(t *testing.T) {
	tm := teatest.NewTestModel(t, program{editor: newEditor(t)}, teatest.WithInitialTermSize(100, 40))

	tm.Type("customer-type:v")
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("customer-type:vip"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Type("smoke,")
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(program)
	require.NotNil(t, final.saved)
	assert.Equal(t, []string{"customer-type:vip", "smoke"}, final.saved.Set.Tags())

	out, err := io.ReadAll(tm.FinalOutput(t))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

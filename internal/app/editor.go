package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/styles"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/tageditor"
)

// SaveSetFunc persists the set produced by the tag editor.
type SaveSetFunc func(ctx context.Context, set classification.Set) error

// editorSavedMsg reports the outcome of SaveSetFunc.
type editorSavedMsg struct {
	err error
}

// Editor runs the tag editor as a program of its own. It quits once the set is
// saved or the editor is cancelled.
type Editor struct {
	editor tageditor.Model
	save   SaveSetFunc

	saved  bool
	err    error
	width  int
	height int
}

// NewEditor wraps editor; save is called when the user confirms a changed set.
func NewEditor(editor tageditor.Model, save SaveSetFunc) Editor {
	return Editor{editor: editor, save: save}
}

// Saved reports whether a changed set was written.
func (e Editor) Saved() bool {
	return e.saved
}

// Err returns the save error, if any.
func (e Editor) Err() error {
	return e.err
}

// Set returns the set currently shown by the editor.
func (e Editor) Set() classification.Set {
	return e.editor.Set()
}

// Init implements tea.Model.
func (e Editor) Init() tea.Cmd {
	return e.editor.Init()
}

// Update implements tea.Model.
func (e Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		e.editor = e.editor.SetSize(msg.Width, msg.Height)
		return e, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return e, tea.Quit
		}

	case tageditor.SaveMsg:
		if !msg.Changed || e.save == nil {
			return e, tea.Quit
		}
		save, set := e.save, msg.Set
		return e, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			return editorSavedMsg{err: save(ctx, set)}
		}

	case editorSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatTags, "Saving classification set failed", msg.err)
			e.err = msg.err
			return e, nil
		}
		e.saved = true
		e.err = nil
		return e, tea.Quit

	case tageditor.CancelMsg:
		return e, tea.Quit
	}

	var cmd tea.Cmd
	e.editor, cmd = e.editor.Update(msg)
	return e, cmd
}

// View implements tea.Model.
func (e Editor) View() string {
	view := e.editor.Overlay("")
	if e.err != nil {
		line := styles.ErrorStyle.Render("Save failed: " + e.err.Error() + " (ctrl+s to retry)")
		view = lipgloss.JoinVertical(lipgloss.Left, view, line)
	}
	return view
}

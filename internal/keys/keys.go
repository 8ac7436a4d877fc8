// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ConsoleKeyMap defines the keybindings for the registry administration console.
type ConsoleKeyMap struct {
	// Navigation
	Up         key.Binding
	Down       key.Binding
	FocusNext  key.Binding
	SelectItem key.Binding

	// Groups
	NewRuleGroup   key.Binding
	NewRecipeGroup key.Binding
	RenameGroup    key.Binding
	DeleteGroup    key.Binding

	// Members
	NewItem    key.Binding
	DeleteItem key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Save       key.Binding

	// Dialogs
	Confirm key.Binding
	Deny    key.Binding

	// General
	Reload key.Binding
	Escape key.Binding
	Help   key.Binding
	Logs   key.Binding
	Quit   key.Binding
}

// DefaultConsoleKeyMap returns the default console keybindings.
func DefaultConsoleKeyMap() ConsoleKeyMap {
	return ConsoleKeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		SelectItem: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),

		// Groups
		NewRuleGroup: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "new rule group"),
		),
		NewRecipeGroup: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "new recipe group"),
		),
		RenameGroup: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename group"),
		),
		DeleteGroup: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete group"),
		),

		// Members
		NewItem: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new rule/recipe"),
		),
		DeleteItem: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete rule/recipe"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),

		// Dialogs
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),

		// General
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload registry"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "go back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug logs"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k ConsoleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewItem, k.Save, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k ConsoleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.FocusNext, k.SelectItem},
		{k.NewRuleGroup, k.NewRecipeGroup, k.RenameGroup, k.DeleteGroup},
		{k.NewItem, k.DeleteItem, k.NextField, k.PrevField, k.Save},
		{k.Reload, k.Help, k.Escape, k.Quit},
	}
}

// TagEditorKeyMap defines the keybindings for the tag input.
type TagEditorKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Commit    key.Binding
	Separator key.Binding
	Backspace key.Binding
	EditLast  key.Binding
	Recipes   key.Binding
	Save      key.Binding
	Cancel    key.Binding
}

// DefaultTagEditorKeyMap returns the tag input keybindings.
func DefaultTagEditorKeyMap() TagEditorKeyMap {
	return TagEditorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous suggestion"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next suggestion"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add tag"),
		),
		Separator: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "add tag"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "delete"),
		),
		EditLast: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit last tag"),
		),
		Recipes: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "apply recipe"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close suggestions / cancel"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k TagEditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Recipes, k.Save, k.Cancel}
}

// FullHelp returns keybindings for the full help view.
func (k TagEditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Commit, k.Separator, k.Backspace, k.EditLast},
		{k.Recipes, k.Save, k.Cancel},
	}
}

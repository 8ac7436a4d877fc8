package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestConsole_KeyAssignments(t *testing.T) {
	km := DefaultConsoleKeyMap()
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Save uses ctrl+s", binding: km.Save, expected: []string{"ctrl+s"}},
		{name: "Quit uses q and ctrl+c", binding: km.Quit, expected: []string{"q", "ctrl+c"}},
		{name: "DeleteGroup is capital D", binding: km.DeleteGroup, expected: []string{"D"}},
		{name: "DeleteItem is lower d", binding: km.DeleteItem, expected: []string{"d"}},
		{name: "Logs uses ctrl+x", binding: km.Logs, expected: []string{"ctrl+x"}},
		{name: "Confirm accepts y and enter", binding: km.Confirm, expected: []string{"y", "enter"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestConsole_HelpTextDefined(t *testing.T) {
	km := DefaultConsoleKeyMap()
	for _, group := range km.FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
}

func TestConsole_ShortHelp(t *testing.T) {
	km := DefaultConsoleKeyMap()
	require.Len(t, km.ShortHelp(), 4)
	require.Equal(t, km.Quit.Keys(), km.ShortHelp()[3].Keys())
}

func TestTagEditor_SeparatorsAddTags(t *testing.T) {
	km := DefaultTagEditorKeyMap()
	require.Equal(t, []string{"enter"}, km.Commit.Keys())
	require.Equal(t, []string{","}, km.Separator.Keys())
	require.Equal(t, "add tag", km.Commit.Help().Desc)
	require.Equal(t, "add tag", km.Separator.Help().Desc)
}

func TestTagEditor_FullHelp(t *testing.T) {
	km := DefaultTagEditorKeyMap()
	help := km.FullHelp()
	require.Len(t, help, 3)
	for _, group := range help {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Desc)
		}
	}
}

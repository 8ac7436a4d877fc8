package admin

import (
	"errors"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// Console errors
var (
	ErrNoSelection    = errors.New("no group selected")
	ErrNoDraft        = errors.New("no rule or recipe is being edited")
	ErrNoConfirmation = errors.New("nothing to confirm")
	ErrNotRenaming    = errors.New("group is not being renamed")
	ErrUnsavedChanges = errors.New("save or cancel the open edit first")
)

// State is the console state for the selected group.
type State int

const (
	StateEmpty State = iota
	StateViewing
	StateEditingField
	StateCreatingField
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditingField:
		return "editing"
	case StateCreatingField:
		return "creating"
	default:
		return "empty"
	}
}

// ConfirmKind identifies what a pending confirmation dialog will do.
type ConfirmKind int

const (
	ConfirmDeleteRule ConfirmKind = iota + 1
	ConfirmDeleteRecipe
	ConfirmDeleteGroup
	ConfirmDiscard
)

// Noun returns the thing the dialog is about, used in dialog titles.
func (k ConfirmKind) Noun() string {
	switch k {
	case ConfirmDeleteRule:
		return "rule"
	case ConfirmDeleteRecipe:
		return "recipe"
	case ConfirmDeleteGroup:
		return "group"
	case ConfirmDiscard:
		return "changes"
	default:
		return ""
	}
}

// Confirmation is the shared confirmation dialog, parameterized by kind and
// label.
type Confirmation struct {
	Kind  ConfirmKind
	Label string // rule key, recipe name, group key, or navigation target
	// target is the item id, group key or group to navigate to.
	target string
}

// Draft is the rule or recipe being created or edited.
type Draft struct {
	Kind   registry.GroupKind
	Rule   registry.SemanticRule
	Recipe registry.Recipe
}

// ID returns the identity of the drafted item.
func (d Draft) ID() string {
	if d.Kind == registry.KindRecipeGroup {
		return d.Recipe.ID
	}
	return d.Rule.ID
}

// Label returns a human readable name for the drafted item.
func (d Draft) Label() string {
	if d.Kind == registry.KindRecipeGroup {
		return d.Recipe.Name
	}
	return d.Rule.Key
}

func (d Draft) equal(o Draft) bool {
	if d.Kind != o.Kind {
		return false
	}
	if d.Kind == registry.KindRecipeGroup {
		return d.Recipe.Equal(o.Recipe)
	}
	return d.Rule.Equal(o.Rule)
}

func (d Draft) clone() Draft {
	d.Rule = d.Rule.Clone()
	d.Recipe = d.Recipe.Clone()
	return d
}

// Change is one committed mutation of the registry.
type Change struct {
	Before registry.Registry
	After  registry.Registry
	Reason string
	// Warnings are non-fatal problems found while saving a draft, such as a
	// validation pattern that does not compile.
	Warnings []string
}

// GroupEntry is one row of the group list.
type GroupEntry struct {
	Key            string
	Kind           registry.GroupKind
	LineOfBusiness string
	Category       registry.Category
	Members        int
}

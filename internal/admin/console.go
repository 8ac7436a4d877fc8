package admin

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// Console is the administration console state. It is a value; every method
// returns the next console and leaves the receiver untouched.
type Console struct {
	reg      registry.Registry
	selected string
	state    State

	renaming  bool
	renameBuf string

	draft    Draft
	original Draft

	confirm *Confirmation
	now     func() time.Time
}

// Option configures a Console.
type Option func(*Console)

// WithClock sets the clock used to generate group keys.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		c.now = now
	}
}

// New returns a console over reg with nothing selected.
func New(reg registry.Registry, opts ...Option) Console {
	c := Console{reg: reg, state: StateEmpty, now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Registry returns the current snapshot.
func (c Console) Registry() registry.Registry { return c.reg }

// Selected returns the selected group key, empty when none.
func (c Console) Selected() string { return c.selected }

// State returns the state of the selected group.
func (c Console) State() State { return c.state }

// Draft returns the rule or recipe being edited.
func (c Console) Draft() (Draft, bool) {
	if c.state != StateEditingField && c.state != StateCreatingField {
		return Draft{}, false
	}
	return c.draft.clone(), true
}

// Renaming returns the inline rename buffer when a rename is in progress.
func (c Console) Renaming() (string, bool) {
	return c.renameBuf, c.renaming
}

// Pending returns the open confirmation dialog, if any.
func (c Console) Pending() (Confirmation, bool) {
	if c.confirm == nil {
		return Confirmation{}, false
	}
	return *c.confirm, true
}

// Dirty reports whether the draft differs from what was loaded into it.
func (c Console) Dirty() bool {
	if c.state != StateEditingField && c.state != StateCreatingField {
		return false
	}
	return !c.draft.equal(c.original)
}

// SelectedKind returns the kind of the selected group.
func (c Console) SelectedKind() (registry.GroupKind, bool) {
	if c.selected == "" {
		return 0, false
	}
	return c.reg.KindOf(c.selected)
}

// Groups lists rule groups then recipe groups, each sorted by key.
func (c Console) Groups() []GroupEntry {
	var entries []GroupEntry
	for _, key := range c.reg.RuleGroupKeys() {
		g, _ := c.reg.RuleGroup(key)
		entries = append(entries, GroupEntry{
			Key: key, Kind: registry.KindRuleGroup, LineOfBusiness: g.LineOfBusiness,
			Category: g.Category, Members: g.Len(),
		})
	}
	for _, key := range c.reg.RecipeGroupKeys() {
		g, _ := c.reg.RecipeGroup(key)
		entries = append(entries, GroupEntry{
			Key: key, Kind: registry.KindRecipeGroup, LineOfBusiness: g.LineOfBusiness,
			Members: g.Len(),
		})
	}
	return entries
}

// Reload replaces the snapshot with one loaded from outside. It is refused
// while a draft has unsaved changes. A selection whose group disappeared is
// cleared.
func (c Console) Reload(reg registry.Registry) (Console, bool) {
	if c.Dirty() {
		return c, false
	}
	c.reg = reg
	if c.selected != "" && !reg.HasKey(c.selected) {
		c = c.deselect()
	}
	return c, true
}

// Rollback restores the snapshot a failed save started from. Selection and
// drafts that no longer apply are cleared.
func (c Console) Rollback(change Change) Console {
	c.reg = change.Before
	c.confirm = nil
	if c.selected != "" && !c.reg.HasKey(c.selected) {
		return c.deselect()
	}
	return c
}

// SelectGroup makes key the selected group. With unsaved changes on another
// group a discard confirmation opens instead and nothing else changes.
func (c Console) SelectGroup(key string) (Console, error) {
	if !c.reg.HasKey(key) {
		return c, fmt.Errorf("%w: %s", registry.ErrGroupNotFound, key)
	}
	if key == c.selected {
		return c, nil
	}
	if c.Dirty() {
		c.confirm = &Confirmation{Kind: ConfirmDiscard, Label: key, target: key}
		return c, nil
	}
	return c.selectGroup(key), nil
}

// CreateGroup inserts an empty group, selects it and opens the inline rename
// seeded with the generated key. Leaving without renaming keeps that key.
// With unsaved changes it fails with ErrUnsavedChanges and nothing changes.
func (c Console) CreateGroup(kind registry.GroupKind, lineOfBusiness string, category registry.Category) (Console, Change, error) {
	if c.Dirty() {
		return c, Change{}, ErrUnsavedChanges
	}
	before := c.reg
	next, key := c.reg.CreateGroup(kind, lineOfBusiness, category, c.now())
	c.reg = next
	c = c.selectGroup(key)
	c.renaming = true
	c.renameBuf = key
	return c, Change{Before: before, After: next, Reason: fmt.Sprintf("create %s %s", kind, key)}, nil
}

// BeginRename opens the inline rename for the selected group.
func (c Console) BeginRename() (Console, error) {
	if c.selected == "" {
		return c, ErrNoSelection
	}
	c.renaming = true
	c.renameBuf = c.selected
	return c, nil
}

// SetRenameBuffer updates the inline rename text.
func (c Console) SetRenameBuffer(text string) Console {
	if c.renaming {
		c.renameBuf = text
	}
	return c
}

// CommitRename renames the selected group to newKey and moves the selection
// with it. Blank, unchanged and taken names leave the group under its old key;
// the error says why.
func (c Console) CommitRename(newKey string) (Console, *Change, error) {
	if !c.renaming {
		return c, nil, ErrNotRenaming
	}
	c.renaming = false
	c.renameBuf = ""

	before := c.reg
	next, err := c.reg.RenameGroup(c.selected, newKey)
	if err != nil {
		return c, nil, err
	}
	oldKey := c.selected
	c.reg = next
	c.selected = strings.TrimSpace(newKey)
	return c, &Change{Before: before, After: next, Reason: fmt.Sprintf("rename %s to %s", oldKey, c.selected)}, nil
}

// CancelRename closes the inline rename without changing anything.
func (c Console) CancelRename() Console {
	c.renaming = false
	c.renameBuf = ""
	return c
}

// CanDeleteGroup reports whether the selected group may be deleted, which is
// only when it has no members.
func (c Console) CanDeleteGroup() bool {
	n, ok := c.reg.MemberCount(c.selected)
	return ok && n == 0
}

// RequestDeleteGroup opens the delete confirmation for the selected group.
// Groups with members cannot be deleted and get ErrGroupNotEmpty.
func (c Console) RequestDeleteGroup() (Console, error) {
	if c.selected == "" {
		return c, ErrNoSelection
	}
	if !c.CanDeleteGroup() {
		return c, fmt.Errorf("%w: %s", registry.ErrGroupNotEmpty, c.selected)
	}
	c.confirm = &Confirmation{Kind: ConfirmDeleteGroup, Label: c.selected, target: c.selected}
	return c, nil
}

// NewRule starts a fresh rule draft in the selected rule group.
func (c Console) NewRule() (Console, error) {
	g, err := c.selectedRuleGroup()
	if err != nil {
		return c, err
	}
	rule := registry.SemanticRule{ID: registry.NewRuleID(), LineOfBusiness: g.LineOfBusiness, Category: g.Category}
	return c.startDraft(Draft{Kind: registry.KindRuleGroup, Rule: rule}, StateCreatingField), nil
}

// NewRecipe starts a fresh recipe draft in the selected recipe group.
func (c Console) NewRecipe() (Console, error) {
	g, err := c.selectedRecipeGroup()
	if err != nil {
		return c, err
	}
	recipe := registry.Recipe{ID: registry.NewRecipeID(), LineOfBusiness: g.LineOfBusiness}
	return c.startDraft(Draft{Kind: registry.KindRecipeGroup, Recipe: recipe}, StateCreatingField), nil
}

// EditRule loads a copy of the rule into the draft.
func (c Console) EditRule(id string) (Console, error) {
	g, err := c.selectedRuleGroup()
	if err != nil {
		return c, err
	}
	i := slices.IndexFunc(g.Rules, func(r registry.SemanticRule) bool { return r.ID == id })
	if i < 0 {
		return c, fmt.Errorf("%w: rule %s", registry.ErrItemNotFound, id)
	}
	return c.startDraft(Draft{Kind: registry.KindRuleGroup, Rule: g.Rules[i]}, StateEditingField), nil
}

// EditRecipe loads a copy of the recipe into the draft.
func (c Console) EditRecipe(id string) (Console, error) {
	g, err := c.selectedRecipeGroup()
	if err != nil {
		return c, err
	}
	i := slices.IndexFunc(g.Recipes, func(r registry.Recipe) bool { return r.ID == id })
	if i < 0 {
		return c, fmt.Errorf("%w: recipe %s", registry.ErrItemNotFound, id)
	}
	return c.startDraft(Draft{Kind: registry.KindRecipeGroup, Recipe: g.Recipes[i]}, StateEditingField), nil
}

// UpdateDraft applies fn to a copy of the draft.
func (c Console) UpdateDraft(fn func(*Draft)) (Console, error) {
	if _, ok := c.Draft(); !ok {
		return c, ErrNoDraft
	}
	d := c.draft.clone()
	fn(&d)
	d.Kind = c.draft.Kind
	c.draft = d
	return c, nil
}

// SaveDraft writes the draft into the selected group, replacing the member
// with the same id or appending it. A pattern that does not compile is saved
// anyway and reported in Change.Warnings.
func (c Console) SaveDraft() (Console, *Change, error) {
	d, ok := c.Draft()
	if !ok {
		return c, nil, ErrNoDraft
	}

	var (
		next     registry.Registry
		warnings []string
		err      error
	)
	if d.Kind == registry.KindRecipeGroup {
		if err := registry.ValidateRecipe(d.Recipe); err != nil {
			return c, nil, err
		}
		next, err = c.reg.SaveRecipe(c.selected, d.Recipe)
	} else {
		d.Rule.Key = strings.TrimSpace(d.Rule.Key)
		if verr := registry.ValidateRule(d.Rule); verr != nil {
			if fatalRuleError(verr) {
				return c, nil, verr
			}
			warnings = append(warnings, verr.Error())
		}
		next, err = c.reg.SaveRule(c.selected, d.Rule)
	}
	if err != nil {
		return c, nil, err
	}

	before := c.reg
	c.reg = next
	c = c.clearDraft()
	return c, &Change{
		Before:   before,
		After:    next,
		Reason:   fmt.Sprintf("save %s %s in %s", d.Kind.MemberNoun(), d.Label(), c.selected),
		Warnings: warnings,
	}, nil
}

// CancelDraft drops the draft and returns to viewing the group.
func (c Console) CancelDraft() Console {
	return c.clearDraft()
}

// RequestDeleteItem opens the delete confirmation for a rule or recipe of the
// selected group.
func (c Console) RequestDeleteItem(id string) (Console, error) {
	kind, ok := c.SelectedKind()
	if !ok {
		return c, ErrNoSelection
	}
	if kind == registry.KindRecipeGroup {
		g, _ := c.reg.RecipeGroup(c.selected)
		i := slices.IndexFunc(g.Recipes, func(r registry.Recipe) bool { return r.ID == id })
		if i < 0 {
			return c, fmt.Errorf("%w: recipe %s", registry.ErrItemNotFound, id)
		}
		c.confirm = &Confirmation{Kind: ConfirmDeleteRecipe, Label: g.Recipes[i].Name, target: id}
		return c, nil
	}
	g, _ := c.reg.RuleGroup(c.selected)
	i := slices.IndexFunc(g.Rules, func(r registry.SemanticRule) bool { return r.ID == id })
	if i < 0 {
		return c, fmt.Errorf("%w: rule %s", registry.ErrItemNotFound, id)
	}
	c.confirm = &Confirmation{Kind: ConfirmDeleteRule, Label: g.Rules[i].Key, target: id}
	return c, nil
}

// Confirm accepts the open confirmation dialog. Deletions return the Change
// they made; accepting a discard returns a nil Change.
func (c Console) Confirm() (Console, *Change, error) {
	if c.confirm == nil {
		return c, nil, ErrNoConfirmation
	}
	pending := *c.confirm
	c.confirm = nil

	switch pending.Kind {
	case ConfirmDiscard:
		c = c.clearDraft()
		if c.reg.HasKey(pending.target) {
			c = c.selectGroup(pending.target)
		}
		return c, nil, nil

	case ConfirmDeleteGroup:
		before := c.reg
		next, err := c.reg.DeleteGroup(pending.target)
		if err != nil {
			return c, nil, err
		}
		c.reg = next
		c = c.deselect()
		return c, &Change{Before: before, After: next, Reason: "delete group " + pending.target}, nil

	case ConfirmDeleteRule, ConfirmDeleteRecipe:
		before := c.reg
		var (
			next registry.Registry
			err  error
		)
		if pending.Kind == ConfirmDeleteRecipe {
			next, err = c.reg.DeleteRecipe(c.selected, pending.target)
		} else {
			next, err = c.reg.DeleteRule(c.selected, pending.target)
		}
		if err != nil {
			return c, nil, err
		}
		change := &Change{
			Before: before,
			After:  next,
			Reason: fmt.Sprintf("delete %s %s from %s", pending.Kind.Noun(), pending.Label, c.selected),
		}
		c.reg = next
		if d, ok := c.Draft(); ok && d.ID() == pending.target {
			c = c.clearDraft()
		}
		if n, _ := next.MemberCount(c.selected); n == 0 {
			c = c.deselect()
		}
		return c, change, nil
	}
	return c, nil, ErrNoConfirmation
}

// CancelConfirm closes the open confirmation dialog. Declining a discard
// leaves the draft and selection as they were.
func (c Console) CancelConfirm() Console {
	c.confirm = nil
	return c
}

func (c Console) selectGroup(key string) Console {
	c.selected = key
	c.state = StateViewing
	c.renaming = false
	c.renameBuf = ""
	c.draft = Draft{}
	c.original = Draft{}
	return c
}

func (c Console) deselect() Console {
	c.selected = ""
	c.state = StateEmpty
	c.renaming = false
	c.renameBuf = ""
	c.draft = Draft{}
	c.original = Draft{}
	return c
}

func (c Console) startDraft(d Draft, state State) Console {
	c.draft = d.clone()
	c.original = d.clone()
	c.state = state
	c.renaming = false
	return c
}

func (c Console) clearDraft() Console {
	c.draft = Draft{}
	c.original = Draft{}
	if c.selected != "" {
		c.state = StateViewing
	} else {
		c.state = StateEmpty
	}
	return c
}

func (c Console) selectedRuleGroup() (registry.RuleGroup, error) {
	if c.selected == "" {
		return registry.RuleGroup{}, ErrNoSelection
	}
	g, ok := c.reg.RuleGroup(c.selected)
	if !ok {
		return registry.RuleGroup{}, fmt.Errorf("%w: %s is not a rule group", registry.ErrWrongGroupKind, c.selected)
	}
	return g, nil
}

func (c Console) selectedRecipeGroup() (registry.RecipeGroup, error) {
	if c.selected == "" {
		return registry.RecipeGroup{}, ErrNoSelection
	}
	g, ok := c.reg.RecipeGroup(c.selected)
	if !ok {
		return registry.RecipeGroup{}, fmt.Errorf("%w: %s is not a recipe group", registry.ErrWrongGroupKind, c.selected)
	}
	return g, nil
}

// fatalRuleError reports whether a validation error blocks saving. Only a
// pattern that does not compile is tolerated.
func fatalRuleError(err error) bool {
	return errors.Is(err, registry.ErrEmptyKey) ||
		errors.Is(err, registry.ErrKeyHasSpace) ||
		errors.Is(err, registry.ErrKeyHasColon)
}

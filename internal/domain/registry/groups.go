package registry

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// CreateGroup inserts an empty group of the given kind and returns the new
// snapshot with the generated key. category is ignored for recipe groups.
func (r Registry) CreateGroup(kind GroupKind, lineOfBusiness string, category Category, now time.Time) (Registry, string) {
	next := r.clone()
	key := next.uniqueGroupKey(BuildGroupKey(kind, lineOfBusiness, now))

	switch kind {
	case KindRecipeGroup:
		next.recipeGroups[key] = RecipeGroup{Key: key, LineOfBusiness: lineOfBusiness}
	default:
		next.ruleGroups[key] = RuleGroup{Key: key, LineOfBusiness: lineOfBusiness, Category: category}
	}
	return next, key
}

// RenameGroup moves a group to a new key. The new key is trimmed first.
// Blank names, unchanged names and names used anywhere in the shared namespace
// are rejected and the receiver is returned unchanged.
func (r Registry) RenameGroup(oldKey, newKey string) (Registry, error) {
	newKey = strings.TrimSpace(newKey)
	kind, ok := r.KindOf(oldKey)
	switch {
	case !ok:
		return r, fmt.Errorf("%w: %s", ErrGroupNotFound, oldKey)
	case newKey == "":
		return r, ErrBlankName
	case newKey == oldKey:
		return r, ErrNameUnchanged
	case r.HasKey(newKey):
		return r, fmt.Errorf("%w: %s", ErrNameTaken, newKey)
	}

	next := r.clone()
	if kind == KindRecipeGroup {
		g := next.recipeGroups[oldKey].Clone()
		delete(next.recipeGroups, oldKey)
		g.Key = newKey
		next.recipeGroups[newKey] = g
	} else {
		g := next.ruleGroups[oldKey].Clone()
		delete(next.ruleGroups, oldKey)
		g.Key = newKey
		next.ruleGroups[newKey] = g
	}
	return next, nil
}

// DeleteGroup removes an empty group. Groups that still hold members are left
// in place and ErrGroupNotEmpty is returned.
func (r Registry) DeleteGroup(key string) (Registry, error) {
	count, ok := r.MemberCount(key)
	if !ok {
		return r, fmt.Errorf("%w: %s", ErrGroupNotFound, key)
	}
	if count > 0 {
		return r, fmt.Errorf("%w: %s has %d", ErrGroupNotEmpty, key, count)
	}

	next := r.clone()
	delete(next.ruleGroups, key)
	delete(next.recipeGroups, key)
	return next, nil
}

// SaveRule replaces the rule with the same ID in the group, or appends it.
// The rule takes the group's category, and its line of business when unset.
func (r Registry) SaveRule(groupKey string, rule SemanticRule) (Registry, error) {
	g, err := r.ruleGroupFor(groupKey)
	if err != nil {
		return r, err
	}
	if rule.ID == "" {
		return r, ErrEmptyID
	}

	rule = rule.Clone()
	rule.Category = g.Category
	if rule.LineOfBusiness == "" {
		rule.LineOfBusiness = g.LineOfBusiness
	}

	g = g.Clone()
	if i := slices.IndexFunc(g.Rules, func(x SemanticRule) bool { return x.ID == rule.ID }); i >= 0 {
		g.Rules[i] = rule
	} else {
		g.Rules = append(g.Rules, rule)
	}

	next := r.clone()
	next.ruleGroups[groupKey] = g
	return next, nil
}

// DeleteRule removes the rule with the given ID. The group is kept even when
// it becomes empty.
func (r Registry) DeleteRule(groupKey, ruleID string) (Registry, error) {
	g, err := r.ruleGroupFor(groupKey)
	if err != nil {
		return r, err
	}
	i := slices.IndexFunc(g.Rules, func(x SemanticRule) bool { return x.ID == ruleID })
	if i < 0 {
		return r, fmt.Errorf("%w: rule %s in %s", ErrItemNotFound, ruleID, groupKey)
	}

	g = g.Clone()
	g.Rules = slices.Delete(g.Rules, i, i+1)

	next := r.clone()
	next.ruleGroups[groupKey] = g
	return next, nil
}

// SaveRecipe replaces the recipe with the same ID in the group, or appends it.
// The recipe takes the group's line of business when unset.
func (r Registry) SaveRecipe(groupKey string, recipe Recipe) (Registry, error) {
	g, err := r.recipeGroupFor(groupKey)
	if err != nil {
		return r, err
	}
	if recipe.ID == "" {
		return r, ErrEmptyID
	}

	recipe = recipe.Clone()
	if recipe.LineOfBusiness == "" {
		recipe.LineOfBusiness = g.LineOfBusiness
	}

	g = g.Clone()
	if i := slices.IndexFunc(g.Recipes, func(x Recipe) bool { return x.ID == recipe.ID }); i >= 0 {
		g.Recipes[i] = recipe
	} else {
		g.Recipes = append(g.Recipes, recipe)
	}

	next := r.clone()
	next.recipeGroups[groupKey] = g
	return next, nil
}

// DeleteRecipe removes the recipe with the given ID. The group is kept even
// when it becomes empty.
func (r Registry) DeleteRecipe(groupKey, recipeID string) (Registry, error) {
	g, err := r.recipeGroupFor(groupKey)
	if err != nil {
		return r, err
	}
	i := slices.IndexFunc(g.Recipes, func(x Recipe) bool { return x.ID == recipeID })
	if i < 0 {
		return r, fmt.Errorf("%w: recipe %s in %s", ErrItemNotFound, recipeID, groupKey)
	}

	g = g.Clone()
	g.Recipes = slices.Delete(g.Recipes, i, i+1)

	next := r.clone()
	next.recipeGroups[groupKey] = g
	return next, nil
}

func (r Registry) ruleGroupFor(key string) (RuleGroup, error) {
	if g, ok := r.ruleGroups[key]; ok {
		return g, nil
	}
	if _, ok := r.recipeGroups[key]; ok {
		return RuleGroup{}, fmt.Errorf("%w: %s is a recipe group", ErrWrongGroupKind, key)
	}
	return RuleGroup{}, fmt.Errorf("%w: %s", ErrGroupNotFound, key)
}

func (r Registry) recipeGroupFor(key string) (RecipeGroup, error) {
	if g, ok := r.recipeGroups[key]; ok {
		return g, nil
	}
	if _, ok := r.ruleGroups[key]; ok {
		return RecipeGroup{}, fmt.Errorf("%w: %s is a rule group", ErrWrongGroupKind, key)
	}
	return RecipeGroup{}, fmt.Errorf("%w: %s", ErrGroupNotFound, key)
}

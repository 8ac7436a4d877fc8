package registry

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Registry errors
var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrGroupNotEmpty   = errors.New("group still has members")
	ErrBlankName       = errors.New("group name cannot be blank")
	ErrNameUnchanged   = errors.New("group name unchanged")
	ErrNameTaken       = errors.New("group name already in use")
	ErrItemNotFound    = errors.New("item not found in group")
	ErrEmptyID         = errors.New("item id cannot be empty")
	ErrUnknownCategory = errors.New("unknown rule category")
	ErrWrongGroupKind  = errors.New("group holds a different kind of member")
)

// Registry is an immutable snapshot of every rule group and recipe group.
// The zero value is an empty registry.
type Registry struct {
	ruleGroups   map[string]RuleGroup
	recipeGroups map[string]RecipeGroup
}

// New builds a snapshot from the given groups. The groups are deep-copied.
// Later duplicates of an already used key are ignored.
func New(ruleGroups []RuleGroup, recipeGroups []RecipeGroup) Registry {
	r := Registry{
		ruleGroups:   make(map[string]RuleGroup, len(ruleGroups)),
		recipeGroups: make(map[string]RecipeGroup, len(recipeGroups)),
	}
	for _, g := range ruleGroups {
		if r.HasKey(g.Key) {
			continue
		}
		r.ruleGroups[g.Key] = g.Clone()
	}
	for _, g := range recipeGroups {
		if r.HasKey(g.Key) {
			continue
		}
		r.recipeGroups[g.Key] = g.Clone()
	}
	return r
}

// HasKey reports whether key is used by any group, of either kind.
func (r Registry) HasKey(key string) bool {
	if _, ok := r.ruleGroups[key]; ok {
		return true
	}
	_, ok := r.recipeGroups[key]
	return ok
}

// KindOf returns the kind of group registered under key.
func (r Registry) KindOf(key string) (GroupKind, bool) {
	if _, ok := r.ruleGroups[key]; ok {
		return KindRuleGroup, true
	}
	if _, ok := r.recipeGroups[key]; ok {
		return KindRecipeGroup, true
	}
	return 0, false
}

// RuleGroup returns a copy of the rule group stored under key.
func (r Registry) RuleGroup(key string) (RuleGroup, bool) {
	g, ok := r.ruleGroups[key]
	if !ok {
		return RuleGroup{}, false
	}
	return g.Clone(), true
}

// RecipeGroup returns a copy of the recipe group stored under key.
func (r Registry) RecipeGroup(key string) (RecipeGroup, bool) {
	g, ok := r.recipeGroups[key]
	if !ok {
		return RecipeGroup{}, false
	}
	return g.Clone(), true
}

// MemberCount returns how many rules or recipes the group holds.
func (r Registry) MemberCount(key string) (int, bool) {
	if g, ok := r.ruleGroups[key]; ok {
		return g.Len(), true
	}
	if g, ok := r.recipeGroups[key]; ok {
		return g.Len(), true
	}
	return 0, false
}

// RuleGroupKeys returns rule group keys sorted alphabetically.
func (r Registry) RuleGroupKeys() []string {
	return slices.Sorted(maps.Keys(r.ruleGroups))
}

// RecipeGroupKeys returns recipe group keys sorted alphabetically.
func (r Registry) RecipeGroupKeys() []string {
	return slices.Sorted(maps.Keys(r.recipeGroups))
}

// Grouped returns every rule group keyed by group key.
func (r Registry) Grouped() map[string]RuleGroup {
	out := make(map[string]RuleGroup, len(r.ruleGroups))
	for k, g := range r.ruleGroups {
		out[k] = g.Clone()
	}
	return out
}

// RecipesGrouped returns the recipes of every recipe group keyed by group key.
func (r Registry) RecipesGrouped() map[string][]Recipe {
	out := make(map[string][]Recipe, len(r.recipeGroups))
	for k, g := range r.recipeGroups {
		out[k] = g.Clone().Recipes
	}
	return out
}

// SemanticRules returns all rules, ordered by group key then position in the group.
func (r Registry) SemanticRules() []SemanticRule {
	var rules []SemanticRule
	for _, key := range r.RuleGroupKeys() {
		for _, rule := range r.ruleGroups[key].Rules {
			rules = append(rules, rule.Clone())
		}
	}
	return rules
}

// Recipes returns all recipes, ordered by group key then position in the group.
func (r Registry) Recipes() []Recipe {
	var recipes []Recipe
	for _, key := range r.RecipeGroupKeys() {
		for _, recipe := range r.recipeGroups[key].Recipes {
			recipes = append(recipes, recipe.Clone())
		}
	}
	return recipes
}

// RulesFor returns the rules scoped to a line of business. A rule without its
// own line of business takes its group's. Matching is case-insensitive; an
// empty lineOfBusiness returns every rule.
func (r Registry) RulesFor(lineOfBusiness string) []SemanticRule {
	if lineOfBusiness == "" {
		return r.SemanticRules()
	}
	var rules []SemanticRule
	for _, key := range r.RuleGroupKeys() {
		g := r.ruleGroups[key]
		for _, rule := range g.Rules {
			lob := rule.LineOfBusiness
			if lob == "" {
				lob = g.LineOfBusiness
			}
			if strings.EqualFold(lob, lineOfBusiness) {
				rules = append(rules, rule.Clone())
			}
		}
	}
	return rules
}

// RecipesFor returns the recipes scoped to a line of business, falling back to
// the group's line of business like RulesFor. An empty lineOfBusiness returns
// every recipe.
func (r Registry) RecipesFor(lineOfBusiness string) []Recipe {
	if lineOfBusiness == "" {
		return r.Recipes()
	}
	var recipes []Recipe
	for _, key := range r.RecipeGroupKeys() {
		g := r.recipeGroups[key]
		for _, recipe := range g.Recipes {
			lob := recipe.LineOfBusiness
			if lob == "" {
				lob = g.LineOfBusiness
			}
			if strings.EqualFold(lob, lineOfBusiness) {
				recipes = append(recipes, recipe.Clone())
			}
		}
	}
	return recipes
}

// FindRecipe looks a recipe up by id or, failing that, by case-insensitive name.
func (r Registry) FindRecipe(idOrName string) (Recipe, bool) {
	recipes := r.Recipes()
	for _, recipe := range recipes {
		if recipe.ID == idOrName {
			return recipe, true
		}
	}
	for _, recipe := range recipes {
		if strings.EqualFold(recipe.Name, idOrName) {
			return recipe, true
		}
	}
	return Recipe{}, false
}

// SingularKeys returns the distinct non-empty rule keys. Every rule key is
// singular: a classification set holds at most one tag per key.
func (r Registry) SingularKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, rule := range r.SemanticRules() {
		if rule.Key == "" || seen[rule.Key] {
			continue
		}
		seen[rule.Key] = true
		keys = append(keys, rule.Key)
	}
	return keys
}

// LinesOfBusiness returns every line of business mentioned by a group, sorted.
func (r Registry) LinesOfBusiness() []string {
	set := make(map[string]bool)
	for _, g := range r.ruleGroups {
		if g.LineOfBusiness != "" {
			set[g.LineOfBusiness] = true
		}
	}
	for _, g := range r.recipeGroups {
		if g.LineOfBusiness != "" {
			set[g.LineOfBusiness] = true
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Equal reports whether two snapshots hold the same groups and members.
func (r Registry) Equal(other Registry) bool {
	return maps.EqualFunc(r.ruleGroups, other.ruleGroups, ruleGroupsEqual) &&
		maps.EqualFunc(r.recipeGroups, other.recipeGroups, recipeGroupsEqual)
}

func ruleGroupsEqual(a, b RuleGroup) bool {
	if a.Key != b.Key || a.LineOfBusiness != b.LineOfBusiness || a.Category != b.Category {
		return false
	}
	return slices.EqualFunc(a.Rules, b.Rules, SemanticRule.Equal)
}

func recipeGroupsEqual(a, b RecipeGroup) bool {
	if a.Key != b.Key || a.LineOfBusiness != b.LineOfBusiness {
		return false
	}
	return slices.EqualFunc(a.Recipes, b.Recipes, Recipe.Equal)
}

// clone returns a snapshot whose maps can be modified without touching r.
// Groups themselves are copied lazily by the operation that changes them.
func (r Registry) clone() Registry {
	return Registry{
		ruleGroups:   maps.Clone(orEmpty(r.ruleGroups)),
		recipeGroups: maps.Clone(orEmpty(r.recipeGroups)),
	}
}

func orEmpty[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}

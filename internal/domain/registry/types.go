package registry

import (
	"fmt"
	"slices"
	"strings"
)

// Category classifies what a semantic rule describes.
type Category int

const (
	// CategoryFlavor marks rules describing the shape of test data (e.g. customer-type).
	CategoryFlavor Category = iota
	// CategoryRecon marks rules used for reconciliation and scheduling (e.g. schedule:month).
	CategoryRecon
)

// String returns the lowercase name used in configuration files.
func (c Category) String() string {
	switch c {
	case CategoryFlavor:
		return "flavor"
	case CategoryRecon:
		return "recon"
	default:
		return "unknown"
	}
}

// ParseCategory converts a configuration value into a Category.
// Matching is case-insensitive; an empty value defaults to CategoryFlavor.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flavor":
		return CategoryFlavor, nil
	case "recon":
		return CategoryRecon, nil
	default:
		return CategoryFlavor, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// GroupKind distinguishes the two kinds of members a group can hold.
type GroupKind int

const (
	KindRuleGroup GroupKind = iota
	KindRecipeGroup
)

func (k GroupKind) String() string {
	if k == KindRecipeGroup {
		return "recipe group"
	}
	return "rule group"
}

// MemberNoun names one member of a group of this kind.
func (k GroupKind) MemberNoun() string {
	if k == KindRecipeGroup {
		return "recipe"
	}
	return "rule"
}

// keyPrefix is the type prefix used when generating a fresh group key.
func (k GroupKind) keyPrefix() string {
	if k == KindRecipeGroup {
		return "recipes"
	}
	return "rules"
}

// SemanticRule declares a singular tag key together with the pattern that
// validates full tags and the values offered as suggestions.
type SemanticRule struct {
	ID                string
	LineOfBusiness    string
	Category          Category
	Key               string   // e.g. "customer-type", "schedule"
	ValidationPattern string   // regular expression source, matched case-insensitively
	Suggestions       []string // ordered full tags, e.g. "customer-type:vip"
}

// Clone returns a deep copy of the rule.
func (r SemanticRule) Clone() SemanticRule {
	r.Suggestions = slices.Clone(r.Suggestions)
	return r
}

// Equal reports whether two rules are identical, field by field.
func (r SemanticRule) Equal(o SemanticRule) bool {
	return r.ID == o.ID && r.LineOfBusiness == o.LineOfBusiness && r.Category == o.Category &&
		r.Key == o.Key && r.ValidationPattern == o.ValidationPattern &&
		slices.Equal(r.Suggestions, o.Suggestions)
}

// KeyToken returns the "key:" token used for category suggestions.
func (r SemanticRule) KeyToken() string {
	return r.Key + ":"
}

// RuleGroup is a named container of semantic rules for one line of business.
type RuleGroup struct {
	Key            string
	LineOfBusiness string
	Category       Category
	Rules          []SemanticRule
}

// Clone returns a deep copy of the group.
func (g RuleGroup) Clone() RuleGroup {
	rules := make([]SemanticRule, len(g.Rules))
	for i, r := range g.Rules {
		rules[i] = r.Clone()
	}
	g.Rules = rules
	return g
}

// Len returns the number of rules in the group.
func (g RuleGroup) Len() int {
	return len(g.Rules)
}

// Recipe is a reusable bundle of preset tags.
type Recipe struct {
	ID             string
	LineOfBusiness string
	Name           string
	Description    string
	Tags           []string
}

// Clone returns a deep copy of the recipe.
func (r Recipe) Clone() Recipe {
	r.Tags = slices.Clone(r.Tags)
	return r
}

// Equal reports whether two recipes are identical, field by field.
func (r Recipe) Equal(o Recipe) bool {
	return r.ID == o.ID && r.LineOfBusiness == o.LineOfBusiness && r.Name == o.Name &&
		r.Description == o.Description && slices.Equal(r.Tags, o.Tags)
}

// RecipeGroup is a named container of recipes.
type RecipeGroup struct {
	Key            string
	LineOfBusiness string
	Recipes        []Recipe
}

// Clone returns a deep copy of the group.
func (g RecipeGroup) Clone() RecipeGroup {
	recipes := make([]Recipe, len(g.Recipes))
	for i, r := range g.Recipes {
		recipes[i] = r.Clone()
	}
	g.Recipes = recipes
	return g
}

// Len returns the number of recipes in the group.
func (g RecipeGroup) Len() int {
	return len(g.Recipes)
}

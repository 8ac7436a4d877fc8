package testutil

import (
	"fmt"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// RuleOption configures a rule added by WithRule.
type RuleOption func(*registry.SemanticRule)

// RecipeOption configures a recipe added by WithRecipe.
type RecipeOption func(*registry.Recipe)

// defaultRule accepts any value for key and inherits the group's scope.
func defaultRule(key string, g *registry.RuleGroup) registry.SemanticRule {
	return registry.SemanticRule{
		ID:                fmt.Sprintf("%s-%d", g.Key, len(g.Rules)+1),
		LineOfBusiness:    g.LineOfBusiness,
		Category:          g.Category,
		Key:               key,
		ValidationPattern: fmt.Sprintf(`^%s:\S+$`, key),
	}
}

func defaultRecipe(name string, g *registry.RecipeGroup) registry.Recipe {
	return registry.Recipe{
		ID:             fmt.Sprintf("%s-%d", g.Key, len(g.Recipes)+1),
		LineOfBusiness: g.LineOfBusiness,
		Name:           name,
	}
}

// RuleID sets the rule id.
func RuleID(id string) RuleOption {
	return func(r *registry.SemanticRule) { r.ID = id }
}

// Pattern sets the validation pattern.
func Pattern(p string) RuleOption {
	return func(r *registry.SemanticRule) { r.ValidationPattern = p }
}

// Suggestions sets the suggestion list.
func Suggestions(s ...string) RuleOption {
	return func(r *registry.SemanticRule) { r.Suggestions = s }
}

// RuleLineOfBusiness overrides the inherited line of business.
func RuleLineOfBusiness(lob string) RuleOption {
	return func(r *registry.SemanticRule) { r.LineOfBusiness = lob }
}

// RecipeID sets the recipe id.
func RecipeID(id string) RecipeOption {
	return func(r *registry.Recipe) { r.ID = id }
}

// Tags sets the recipe tags.
func Tags(tags ...string) RecipeOption {
	return func(r *registry.Recipe) { r.Tags = tags }
}

// Description sets the recipe description.
func Description(d string) RecipeOption {
	return func(r *registry.Recipe) { r.Description = d }
}

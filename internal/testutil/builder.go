// Package testutil provides registry fixtures and database helpers for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// RegistryBuilder accumulates groups and builds a registry snapshot.
type RegistryBuilder struct {
	t            *testing.T
	ruleGroups   []registry.RuleGroup
	recipeGroups []registry.RecipeGroup
}

// NewRegistryBuilder starts an empty registry.
func NewRegistryBuilder(t *testing.T) *RegistryBuilder {
	t.Helper()
	return &RegistryBuilder{t: t}
}

// WithRuleGroup adds a rule group. Rules added afterwards with WithRule go
// into the most recently added rule group.
func (b *RegistryBuilder) WithRuleGroup(key, lineOfBusiness string, category registry.Category) *RegistryBuilder {
	b.ruleGroups = append(b.ruleGroups, registry.RuleGroup{
		Key:            key,
		LineOfBusiness: lineOfBusiness,
		Category:       category,
	})
	return b
}

// WithRule adds a rule to the last rule group.
func (b *RegistryBuilder) WithRule(key string, opts ...RuleOption) *RegistryBuilder {
	b.t.Helper()
	require.NotEmpty(b.t, b.ruleGroups, "WithRule needs a rule group")

	g := &b.ruleGroups[len(b.ruleGroups)-1]
	rule := defaultRule(key, g)
	for _, opt := range opts {
		opt(&rule)
	}
	g.Rules = append(g.Rules, rule)
	return b
}

// WithRecipeGroup adds a recipe group. Recipes added afterwards go into it.
func (b *RegistryBuilder) WithRecipeGroup(key, lineOfBusiness string) *RegistryBuilder {
	b.recipeGroups = append(b.recipeGroups, registry.RecipeGroup{
		Key:            key,
		LineOfBusiness: lineOfBusiness,
	})
	return b
}

// WithRecipe adds a recipe to the last recipe group.
func (b *RegistryBuilder) WithRecipe(name string, opts ...RecipeOption) *RegistryBuilder {
	b.t.Helper()
	require.NotEmpty(b.t, b.recipeGroups, "WithRecipe needs a recipe group")

	g := &b.recipeGroups[len(b.recipeGroups)-1]
	recipe := defaultRecipe(name, g)
	for _, opt := range opts {
		opt(&recipe)
	}
	g.Recipes = append(g.Recipes, recipe)
	return b
}

// Build returns the snapshot.
func (b *RegistryBuilder) Build() registry.Registry {
	b.t.Helper()
	return registry.New(b.ruleGroups, b.recipeGroups)
}

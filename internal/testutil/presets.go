package testutil

import (
	"testing"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// WithStandardRegistry adds the registry used across UI and CLI tests:
// a retail flavor group, a cards recon group with the schedule family and a
// retail recipe group.
func (b *RegistryBuilder) WithStandardRegistry() *RegistryBuilder {
	return b.
		WithRuleGroup("retail-flavors", "retail", registry.CategoryFlavor).
		WithRule("customer-type",
			RuleID("r-customer-type"),
			Pattern(`^customer-type:(vip|standard|new)$`),
			Suggestions("customer-type:vip", "customer-type:standard", "customer-type:new")).
		WithRule("account",
			RuleID("r-account"),
			Pattern(`^account:(checking|savings)$`),
			Suggestions("account:checking", "account:savings")).
		WithRuleGroup("cards-recon", "cards", registry.CategoryRecon).
		WithRule("schedule",
			RuleID("r-schedule"),
			Pattern(`^schedule:(day|week|month):\d+$`),
			Suggestions("schedule:day:1", "schedule:month:1", "schedule:month:15")).
		WithRecipeGroup("retail-recipes", "retail").
		WithRecipe("VIP checking",
			RecipeID("p-vip-checking"),
			Description("A **VIP** customer with a checking account."),
			Tags("customer-type:vip", "account:checking", "smoke")).
		WithRecipe("New saver",
			RecipeID("p-new-saver"),
			Tags("customer-type:new", "account:savings"))
}

// StandardRegistry builds WithStandardRegistry.
func StandardRegistry(t *testing.T) registry.Registry {
	t.Helper()
	return NewRegistryBuilder(t).WithStandardRegistry().Build()
}

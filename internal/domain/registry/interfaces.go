package registry

// Provider defines read-only access to a registry snapshot.
// Tag parsing, suggestions and the classification editor depend on this
// interface rather than on the concrete snapshot so tests can substitute it.
type Provider interface {
	// SemanticRules returns all rules ordered by group key.
	SemanticRules() []SemanticRule

	// Recipes returns all recipes ordered by group key.
	Recipes() []Recipe

	// RulesFor returns the rules of one line of business (all when empty).
	RulesFor(lineOfBusiness string) []SemanticRule

	// SingularKeys returns every distinct rule key.
	SingularKeys() []string

	// FindRecipe looks a recipe up by id or name.
	FindRecipe(idOrName string) (Recipe, bool)
}

// Compile-time check that Registry implements Provider.
var _ Provider = Registry{}

package classification

import (
	"slices"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// MergeRecipes copies the tags of each recipe, in order, into set.
//
// A tag whose first segment is one of singularKeys replaces the tags already
// stored under that key. Tags already present are not duplicated, so merging
// the same recipe twice leaves the same tags in place. Recipe tags are stored
// verbatim.
func MergeRecipes(recipes []registry.Recipe, set Set, singularKeys []string) Set {
	next := Set{tags: slices.Clone(set.tags)}
	for _, recipe := range recipes {
		for _, tag := range recipe.Tags {
			if tag == "" {
				continue
			}
			key := RecipeKeyOf(tag)
			if IsSingularExact(key, singularKeys) {
				next, _ = next.withoutKey(key)
			}
			if !next.Contains(tag) {
				next.tags = append(next.tags, tag)
			}
		}
	}
	return next
}

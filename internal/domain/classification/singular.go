package classification

import (
	"slices"
	"strings"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// scheduleKey is the one rule family whose singular key spans two segments,
// so schedule:month, schedule:days and schedule:year coexist.
const scheduleKey = "schedule"

// SingularKeyOf returns the key used by Set.Add to find the tags a new tag
// replaces. Tags of the form schedule:<dimension>:<value> use the first two
// segments; every other tag uses the first segment.
func SingularKeyOf(tag string) string {
	segs := Segments(tag)
	if len(segs) >= 3 && segs[0] == scheduleKey {
		return segs[0] + Separator + segs[1]
	}
	return segs[0]
}

// RecipeKeyOf returns the key used by MergeRecipes: always the first segment.
// Unlike SingularKeyOf there is no schedule special case.
func RecipeKeyOf(tag string) string {
	key, _, _ := strings.Cut(tag, Separator)
	return key
}

// IsSingular reports whether key belongs to a rule on the add path: it equals
// a rule key or starts with one. Rules with an empty key are ignored.
func IsSingular(key string, rules []registry.SemanticRule) bool {
	for _, rule := range rules {
		if rule.Key == "" {
			continue
		}
		if key == rule.Key || strings.HasPrefix(key, rule.Key) {
			return true
		}
	}
	return false
}

// IsSingularExact reports whether key is one of the configured singular keys.
// This is the stricter test used by MergeRecipes.
func IsSingularExact(key string, singularKeys []string) bool {
	return slices.Contains(singularKeys, key)
}

package classification

import (
	"testing"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var singularKeys = []string{"customer-type", "schedule"}

func TestMergeRecipes_AppendsInOrderWithoutDuplicates(t *testing.T) {
	recipes := []registry.Recipe{
		{Name: "vip", Tags: []string{"customer-type:vip", "smoke"}},
		{Name: "nightly", Tags: []string{"smoke", "nightly"}},
	}

	s := MergeRecipes(recipes, NewSet("regression"), singularKeys)

	require.Equal(t, []string{"regression", "customer-type:vip", "smoke", "nightly"}, s.Tags())
}

func TestMergeRecipes_SingularKeyReplaces(t *testing.T) {
	recipes := []registry.Recipe{{Tags: []string{"customer-type:retail"}}}

	s := MergeRecipes(recipes, NewSet("customer-type:vip", "smoke"), singularKeys)

	require.Equal(t, []string{"smoke", "customer-type:retail"}, s.Tags())
}

func TestMergeRecipes_ScheduleUsesFirstSegmentOnly(t *testing.T) {
	recipes := []registry.Recipe{{Tags: []string{"schedule:days:10"}}}

	s := MergeRecipes(recipes, NewSet("schedule:month:3"), singularKeys)

	require.Equal(t, []string{"schedule:days:10"}, s.Tags(), "merge path replaces every schedule tag")
}

func TestMergeRecipes_ExactKeyMatchOnly(t *testing.T) {
	recipes := []registry.Recipe{{Tags: []string{"customer-type-extra:x"}}}

	s := MergeRecipes(recipes, NewSet("customer-type-extra:y"), singularKeys)

	require.Equal(t, []string{"customer-type-extra:y", "customer-type-extra:x"}, s.Tags())
}

func TestMergeRecipes_DoesNotMutateInput(t *testing.T) {
	in := NewSet("customer-type:vip")

	_ = MergeRecipes([]registry.Recipe{{Tags: []string{"customer-type:retail"}}}, in, singularKeys)

	require.Equal(t, []string{"customer-type:vip"}, in.Tags())
}

func TestMergeRecipes_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tags := rapid.SliceOfN(rapid.OneOf(
			rapid.StringMatching(`customer-type:(retail|vip)`),
			rapid.StringMatching(`schedule:(month|days):[1-9]`),
			rapid.StringMatching(`channel:(web|mobile)`),
			rapid.SampledFrom([]string{"smoke", "nightly"}),
		), 0, 8).Draw(rt, "tags")
		start := NewSet(rapid.SliceOfN(rapid.SampledFrom([]string{
			"customer-type:vip", "schedule:month:3", "channel:web", "smoke", "legacy",
		}), 0, 5).Draw(rt, "start")...)
		recipes := []registry.Recipe{{Name: "r", Tags: tags}}

		once := MergeRecipes(recipes, start, singularKeys)
		twice := MergeRecipes(recipes, once, singularKeys)

		require.ElementsMatch(rt, once.Tags(), twice.Tags())
		for _, key := range singularKeys {
			n := 0
			for _, tag := range twice.Tags() {
				if RecipeKeyOf(tag) == key && IsSemantic(tag) {
					n++
				}
			}
			require.LessOrEqual(rt, n, 1, "singular key %s duplicated in %v", key, twice.Tags())
		}
	})
}

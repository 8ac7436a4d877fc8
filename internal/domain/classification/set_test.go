package classification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSet_NewSetDropsBlanksAndDuplicates(t *testing.T) {
	s := NewSet("smoke", "", "  ", "smoke", "customer-type:vip")

	require.Equal(t, []string{"smoke", "customer-type:vip"}, s.Tags())
	require.Equal(t, "smoke, customer-type:vip", s.String())
}

func TestSet_AddPlainLabel(t *testing.T) {
	s, out := Set{}.Add("  Smoke ", testRules())

	require.Equal(t, []string{"smoke"}, s.Tags())
	require.True(t, out.Added())
	require.False(t, out.Matched)
	require.False(t, out.Singular)
}

func TestSet_AddIgnoresBlankAndExisting(t *testing.T) {
	s := NewSet("smoke")

	next, out := s.Add("   ", testRules())
	require.True(t, next.Equal(s))
	require.False(t, out.Added())

	next, out = s.Add("smoke", testRules())
	require.True(t, next.Equal(s))
	require.False(t, out.Added())

	next, _ = s.Add("SMOKE", testRules())
	require.Equal(t, []string{"smoke"}, next.Tags(), "normalized duplicate is not stored twice")
}

func TestSet_AddSingularInOtherCaseMovesToEnd(t *testing.T) {
	s := NewSet("customer-type:vip", "smoke")

	next, out := s.Add("Customer-Type:VIP", testRules())

	require.Equal(t, []string{"smoke", "customer-type:vip"}, next.Tags())
	require.True(t, out.Added())
	require.True(t, out.Singular)
	require.Nil(t, out.Replaced, "the re-added tag is not reported as replaced")
}

func TestSet_AddDoesNotMutateReceiver(t *testing.T) {
	s := NewSet("customer-type:retail")

	_, _ = s.Add("customer-type:vip", testRules())

	require.Equal(t, []string{"customer-type:retail"}, s.Tags())
}

// Worked example: committing customer-type:vip and then adding
// customer-type:retail keeps a single customer-type tag.
func TestSet_AddReplacesSingularKey(t *testing.T) {
	s, _ := Set{}.Add("customer-type:vip", testRules())
	require.Equal(t, []string{"customer-type:vip"}, s.Tags())

	s, out := s.Add("customer-type:retail", testRules())

	require.Equal(t, []string{"customer-type:retail"}, s.Tags())
	require.Equal(t, 1, s.Len())
	require.True(t, out.Matched)
	require.True(t, out.Singular)
	require.Equal(t, []string{"customer-type:vip"}, out.Replaced)
}

func TestSet_AddScheduleDimensionsAreIndependent(t *testing.T) {
	rules := testRules()

	s, _ := Set{}.Add("schedule:month:3", rules)
	s, _ = s.Add("schedule:days:10", rules)
	require.Equal(t, []string{"schedule:month:3", "schedule:days:10"}, s.Tags())

	s, _ = s.Add("schedule:month:9", rules)
	require.Equal(t, []string{"schedule:days:10", "schedule:month:9"}, s.Tags())
}

func TestSet_AddUnmatchedSemanticTagStillReplacesByKey(t *testing.T) {
	s := NewSet("customer-type:vip", "smoke")

	s, out := s.Add("Customer-Type:Wholesale", testRules())

	require.False(t, out.Matched)
	require.Equal(t, []string{"smoke", "customer-type:wholesale"}, s.Tags())
}

func TestSet_AddNonSingularSemanticTagAppends(t *testing.T) {
	s := NewSet("channel:web")

	s, _ = s.Add("channel:mobile", testRules())

	require.Equal(t, []string{"channel:web", "channel:mobile"}, s.Tags())
}

func TestSet_Remove(t *testing.T) {
	s := NewSet("a", "b", "c")

	next, ok := s.Remove("b")
	require.True(t, ok)
	require.Equal(t, []string{"a", "c"}, next.Tags())
	require.Equal(t, []string{"a", "b", "c"}, s.Tags())

	_, ok = s.Remove("B")
	require.False(t, ok, "removal is exact")
}

func TestSet_RemoveLast(t *testing.T) {
	s := NewSet("a", "b")

	s, last, ok := s.RemoveLast()
	require.True(t, ok)
	require.Equal(t, "b", last)
	require.Equal(t, []string{"a"}, s.Tags())

	_, _, ok = Set{}.RemoveLast()
	require.False(t, ok)
}

func TestSet_Edit(t *testing.T) {
	s := NewSet("smoke", "customer-type:vip")

	next, refill, ok := s.Edit("customer-type:vip")

	require.True(t, ok)
	require.Equal(t, "customer-type:vip", refill)
	require.Equal(t, []string{"smoke"}, next.Tags())
}

func TestSet_Replace(t *testing.T) {
	s := NewSet("smoke", "customer-type:vip")

	next, out, err := s.Replace("smoke", "Regression", testRules())
	require.NoError(t, err)
	require.Equal(t, "regression", out.Tag)
	require.Equal(t, []string{"customer-type:vip", "regression"}, next.Tags())

	_, _, err = s.Replace("smoke", "  ", testRules())
	require.ErrorIs(t, err, ErrEmptyTag)

	_, _, err = s.Replace("missing", "x", testRules())
	require.ErrorIs(t, err, ErrTagNotFound)
}

func genTagText() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.StringMatching(`(customer-type|Customer-Type):(retail|vip|VIP|wholesale)`),
		rapid.StringMatching(`schedule:(month|days|year):[0-9]{1,2}`),
		rapid.StringMatching(`schedule:(month|days)`),
		rapid.StringMatching(`channel:(web|mobile)`),
		rapid.StringMatching(` ?(smoke|Regression|nightly) ?`),
	)
}

func TestSet_AddProperties(t *testing.T) {
	rules := testRules()
	rapid.Check(t, func(rt *rapid.T) {
		inputs := rapid.SliceOfN(genTagText(), 1, 20).Draw(rt, "inputs")

		var s Set
		for _, in := range inputs {
			var out Outcome
			s, out = s.Add(in, rules)

			want := Normalize(in)
			count := 0
			for _, tag := range s.Tags() {
				if tag == want {
					count++
				}
			}
			require.Equal(rt, 1, count, "added tag %q present exactly once in %v", want, s.Tags())
			if out.Matched {
				require.Equal(rt, strings.ToLower(out.Tag), out.Tag)
			}
		}

		perKey := map[string]int{}
		for _, tag := range s.Tags() {
			if !IsSemantic(tag) {
				continue
			}
			key := SingularKeyOf(tag)
			if IsSingular(key, rules) {
				perKey[key]++
			}
		}
		for key, n := range perKey {
			if key == "schedule" {
				continue
			}
			require.Equal(rt, 1, n, "singular key %s held %d times in %v", key, n, s.Tags())
		}
	})
}

func TestParseEntityKind(t *testing.T) {
	for _, k := range EntityKinds() {
		got, err := ParseEntityKind(" " + strings.ToUpper(string(k)) + " ")
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	_, err := ParseEntityKind("suite")
	require.ErrorIs(t, err, ErrUnknownEntityKind)
}

package classification

import (
	"strings"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// Suggest returns the candidates for partial. Semantic suggestions win; plain
// labels from the vocabulary are offered only when there are none.
func Suggest(partial string, rules []registry.SemanticRule, vocabulary, chosen []string) []string {
	if semantic := SuggestSemantic(partial, rules, chosen); len(semantic) > 0 {
		return semantic
	}
	return SuggestLabels(partial, vocabulary, chosen)
}

// SuggestSemantic completes partial against the rules.
//
// Blank input yields one "key:" token per rule, in rule order. Otherwise the
// suggestion lists of all rules are searched for entries starting with partial
// (case-insensitive) that are not already chosen. When none match, the "key:"
// tokens starting with partial are returned instead.
func SuggestSemantic(partial string, rules []registry.SemanticRule, chosen []string) []string {
	tokens := keyTokens(rules)
	needle := strings.ToLower(strings.TrimSpace(partial))
	if needle == "" {
		return tokens
	}

	taken := lowerSet(chosen)
	var leaves []string
	seen := make(map[string]bool)
	for _, rule := range rules {
		for _, s := range rule.Suggestions {
			lower := strings.ToLower(s)
			if seen[lower] || taken[lower] || !strings.HasPrefix(lower, needle) {
				continue
			}
			seen[lower] = true
			leaves = append(leaves, s)
		}
	}
	if len(leaves) > 0 {
		return leaves
	}

	var categories []string
	for _, token := range tokens {
		if strings.HasPrefix(strings.ToLower(token), needle) {
			categories = append(categories, token)
		}
	}
	return categories
}

// SuggestLabels returns vocabulary entries containing partial, ignoring case.
// Input that already has a ':' is semantic and gets no label suggestions.
func SuggestLabels(partial string, vocabulary, chosen []string) []string {
	if IsSemantic(partial) {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(partial))
	taken := lowerSet(chosen)

	var labels []string
	for _, label := range vocabulary {
		lower := strings.ToLower(label)
		if taken[lower] || !strings.Contains(lower, needle) {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

// keyTokens returns the distinct "key:" tokens of the rules in rule order.
func keyTokens(rules []registry.SemanticRule) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, rule := range rules {
		if rule.Key == "" || seen[rule.Key] {
			continue
		}
		seen[rule.Key] = true
		tokens = append(tokens, rule.KeyToken())
	}
	return tokens
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

package classification

import (
	"regexp"
	"strings"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// ParseResult is the outcome of a successful TryParse.
type ParseResult struct {
	Tag string
	// Parsed is always empty. Matching is a yes/no decision; no capture groups
	// are extracted.
	Parsed map[string]string
}

// TryParse reports whether the trimmed text matches the validation pattern of
// any rule. Patterns are matched case-insensitively. A pattern that does not
// compile never matches.
func TryParse(raw string, rules []registry.SemanticRule) (ParseResult, bool) {
	if _, ok := MatchingRule(raw, rules); !ok {
		return ParseResult{}, false
	}
	return ParseResult{Tag: Normalize(raw), Parsed: map[string]string{}}, true
}

// MatchingRule returns the first rule whose pattern accepts the trimmed text.
func MatchingRule(raw string, rules []registry.SemanticRule) (registry.SemanticRule, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return registry.SemanticRule{}, false
	}
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.ValidationPattern)
		if err != nil {
			continue
		}
		if re.MatchString(trimmed) {
			return rule, true
		}
	}
	return registry.SemanticRule{}, false
}

package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Builder errors
var (
	ErrEmptyKey        = errors.New("rule key cannot be empty")
	ErrKeyHasSpace     = errors.New("rule key cannot contain whitespace")
	ErrKeyHasColon     = errors.New("rule key cannot end with ':'")
	ErrInvalidPattern  = errors.New("validation pattern does not compile")
	ErrEmptyRecipeName = errors.New("recipe name cannot be empty")
)

// NewRuleID returns a fresh identifier for a semantic rule.
func NewRuleID() string {
	return "rule-" + uuid.NewString()
}

// NewRecipeID returns a fresh identifier for a recipe.
func NewRecipeID() string {
	return "recipe-" + uuid.NewString()
}

// RuleBuilder provides a fluent API for creating semantic rules.
type RuleBuilder struct {
	rule SemanticRule
}

// NewRule starts a rule for the given key.
func NewRule(key string) *RuleBuilder {
	return &RuleBuilder{rule: SemanticRule{Key: key}}
}

// ID sets the rule id. A fresh id is generated by Build when unset.
func (b *RuleBuilder) ID(id string) *RuleBuilder {
	b.rule.ID = id
	return b
}

// LineOfBusiness sets the rule's line of business.
func (b *RuleBuilder) LineOfBusiness(lob string) *RuleBuilder {
	b.rule.LineOfBusiness = lob
	return b
}

// Category sets the rule category.
func (b *RuleBuilder) Category(c Category) *RuleBuilder {
	b.rule.Category = c
	return b
}

// Pattern sets the validation pattern source.
func (b *RuleBuilder) Pattern(p string) *RuleBuilder {
	b.rule.ValidationPattern = p
	return b
}

// Suggestions sets the ordered suggestion list.
func (b *RuleBuilder) Suggestions(s ...string) *RuleBuilder {
	b.rule.Suggestions = s
	return b
}

// Build validates the key and returns the rule. Pattern problems are not
// fatal here; see ValidateRule.
func (b *RuleBuilder) Build() (SemanticRule, error) {
	rule := b.rule.Clone()
	rule.Key = strings.TrimSpace(rule.Key)
	if err := validateKey(rule.Key); err != nil {
		return SemanticRule{}, err
	}
	if rule.ID == "" {
		rule.ID = NewRuleID()
	}
	return rule, nil
}

// ValidateRule reports every problem with a rule. A pattern that does not
// compile is reported with ErrInvalidPattern; such a rule never matches at
// parse time but can still be stored.
func ValidateRule(rule SemanticRule) error {
	var errs []error
	if err := validateKey(rule.Key); err != nil {
		errs = append(errs, err)
	}
	if _, err := regexp.Compile("(?i)" + rule.ValidationPattern); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidPattern, err))
	}
	return errors.Join(errs...)
}

// ValidateRecipe reports problems with a recipe.
func ValidateRecipe(recipe Recipe) error {
	if strings.TrimSpace(recipe.Name) == "" {
		return ErrEmptyRecipeName
	}
	return nil
}

func validateKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case strings.ContainsFunc(key, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }):
		return ErrKeyHasSpace
	case strings.HasSuffix(key, ":"):
		return ErrKeyHasColon
	}
	return nil
}

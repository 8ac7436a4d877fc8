package presentation

import (
	"time"

	appclass "github.com/javierhbr/test-inventory-sub000/internal/application/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// RuleDTO represents a semantic rule for presentation
type RuleDTO struct {
	ID          string   `json:"id"`
	Key         string   `json:"key"`
	Pattern     string   `json:"pattern"`
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error,omitempty"` // set when the pattern is unusable
}

// RecipeDTO represents a recipe for presentation
type RecipeDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
}

// GroupDTO represents a rule group or recipe group. Exactly one of Rules and
// Recipes is set, matching Kind.
type GroupDTO struct {
	Key            string      `json:"key"`
	Kind           string      `json:"kind"`
	LineOfBusiness string      `json:"line_of_business"`
	Category       string      `json:"category,omitempty"`
	Rules          []RuleDTO   `json:"rules,omitempty"`
	Recipes        []RecipeDTO `json:"recipes,omitempty"`
}

// RecordDTO represents the classification set of one entity
type RecordDTO struct {
	Kind      string     `json:"kind"`
	EntityID  string     `json:"entity_id"`
	Tags      []string   `json:"tags"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// OutcomeDTO represents the result of committing one tag
type OutcomeDTO struct {
	Tag      string   `json:"tag"`
	Added    bool     `json:"added"`
	Matched  bool     `json:"matched"`
	Replaced []string `json:"replaced,omitempty"`
}

// AddResultDTO is the output of `tags add`
type AddResultDTO struct {
	Record   RecordDTO    `json:"record"`
	Outcomes []OutcomeDTO `json:"outcomes"`
}

// RemoveResultDTO is the output of `tags remove`
type RemoveResultDTO struct {
	Record  RecordDTO `json:"record"`
	Removed []string  `json:"removed"`
}

// ValidationDTO is the verdict on one piece of tag text
type ValidationDTO struct {
	Input   string `json:"input"`
	Tag     string `json:"tag"`
	Matched bool   `json:"matched"`
	Rule    string `json:"rule,omitempty"`
}

// FromDomainRule converts a rule to a DTO, recording pattern problems.
func FromDomainRule(rule registry.SemanticRule) RuleDTO {
	dto := RuleDTO{
		ID:          rule.ID,
		Key:         rule.Key,
		Pattern:     rule.ValidationPattern,
		Suggestions: nonNil(rule.Suggestions),
	}
	if err := registry.ValidateRule(rule); err != nil {
		dto.Error = err.Error()
	}
	return dto
}

// FromDomainRecipe converts a recipe to a DTO
func FromDomainRecipe(recipe registry.Recipe) RecipeDTO {
	return RecipeDTO{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Description: recipe.Description,
		Tags:        nonNil(recipe.Tags),
	}
}

// FromDomainRegistry lists every group, rule groups first, each sorted by key.
// A non-empty lineOfBusiness keeps only groups of that line of business.
func FromDomainRegistry(reg registry.Registry, lineOfBusiness string) []GroupDTO {
	groups := make([]GroupDTO, 0)
	for _, key := range reg.RuleGroupKeys() {
		g, _ := reg.RuleGroup(key)
		if lineOfBusiness != "" && g.LineOfBusiness != lineOfBusiness {
			continue
		}
		rules := make([]RuleDTO, len(g.Rules))
		for i, r := range g.Rules {
			rules[i] = FromDomainRule(r)
		}
		groups = append(groups, GroupDTO{
			Key:            g.Key,
			Kind:           registry.KindRuleGroup.String(),
			LineOfBusiness: g.LineOfBusiness,
			Category:       g.Category.String(),
			Rules:          rules,
		})
	}
	for _, key := range reg.RecipeGroupKeys() {
		g, _ := reg.RecipeGroup(key)
		if lineOfBusiness != "" && g.LineOfBusiness != lineOfBusiness {
			continue
		}
		recipes := make([]RecipeDTO, len(g.Recipes))
		for i, r := range g.Recipes {
			recipes[i] = FromDomainRecipe(r)
		}
		groups = append(groups, GroupDTO{
			Key:            g.Key,
			Kind:           registry.KindRecipeGroup.String(),
			LineOfBusiness: g.LineOfBusiness,
			Recipes:        recipes,
		})
	}
	return groups
}

// FromDomainRecipes converts a slice of recipes to DTOs
func FromDomainRecipes(recipes []registry.Recipe) []RecipeDTO {
	dtos := make([]RecipeDTO, len(recipes))
	for i, r := range recipes {
		dtos[i] = FromDomainRecipe(r)
	}
	return dtos
}

// FromDomainRecord converts a classification record to a DTO. Records never
// saved have no timestamp.
func FromDomainRecord(rec classification.Record) RecordDTO {
	dto := RecordDTO{
		Kind:     string(rec.Kind),
		EntityID: rec.EntityID,
		Tags:     nonNil(rec.Set.Tags()),
	}
	if !rec.UpdatedAt.IsZero() {
		ts := rec.UpdatedAt.UTC()
		dto.UpdatedAt = &ts
	}
	return dto
}

// FromDomainRecords converts a slice of records to DTOs
func FromDomainRecords(recs []classification.Record) []RecordDTO {
	dtos := make([]RecordDTO, len(recs))
	for i, r := range recs {
		dtos[i] = FromDomainRecord(r)
	}
	return dtos
}

// FromDomainOutcomes converts commit outcomes to DTOs
func FromDomainOutcomes(outcomes []classification.Outcome) []OutcomeDTO {
	dtos := make([]OutcomeDTO, len(outcomes))
	for i, o := range outcomes {
		dtos[i] = OutcomeDTO{
			Tag:      o.Tag,
			Added:    o.Added(),
			Matched:  o.Matched,
			Replaced: o.Replaced,
		}
	}
	return dtos
}

// FromValidations converts tag validations to DTOs
func FromValidations(vs []appclass.Validation) []ValidationDTO {
	dtos := make([]ValidationDTO, len(vs))
	for i, v := range vs {
		dtos[i] = ValidationDTO(v)
	}
	return dtos
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

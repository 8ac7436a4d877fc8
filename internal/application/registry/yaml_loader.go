package registry

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	domain "github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// ErrDuplicateGroupKey is returned when two groups in one file share a key.
var ErrDuplicateGroupKey = errors.New("duplicate group key")

// RegistryFile is the root structure of registry.yaml.
type RegistryFile struct {
	RuleGroups   []RuleGroupDef   `yaml:"rule_groups"`
	RecipeGroups []RecipeGroupDef `yaml:"recipe_groups"`
}

// RuleGroupDef defines a group of semantic rules in YAML.
type RuleGroupDef struct {
	Key            string    `yaml:"key"`
	LineOfBusiness string    `yaml:"line_of_business,omitempty"`
	Category       string    `yaml:"category,omitempty"` // "flavor" (default) or "recon"
	Rules          []RuleDef `yaml:"rules"`
}

// RuleDef defines a single semantic rule in YAML.
type RuleDef struct {
	ID             string   `yaml:"id,omitempty"`
	Key            string   `yaml:"key"`
	LineOfBusiness string   `yaml:"line_of_business,omitempty"`
	Pattern        string   `yaml:"pattern,omitempty"`
	Suggestions    []string `yaml:"suggestions,omitempty"`
}

// RecipeGroupDef defines a group of recipes in YAML.
type RecipeGroupDef struct {
	Key            string      `yaml:"key"`
	LineOfBusiness string      `yaml:"line_of_business,omitempty"`
	Recipes        []RecipeDef `yaml:"recipes"`
}

// RecipeDef defines a single recipe in YAML.
type RecipeDef struct {
	ID             string   `yaml:"id,omitempty"`
	Name           string   `yaml:"name"`
	LineOfBusiness string   `yaml:"line_of_business,omitempty"`
	Description    string   `yaml:"description,omitempty"`
	Tags           []string `yaml:"tags"`
}

// LoadRegistryFromYAML reads and parses name from fsys.
func LoadRegistryFromYAML(fsys fs.FS, name string) (domain.Registry, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return domain.Registry{}, fmt.Errorf("read %s: %w", name, err)
	}
	reg, err := ParseRegistry(content)
	if err != nil {
		return domain.Registry{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return reg, nil
}

// ParseRegistry converts registry.yaml content into a snapshot.
// Members without an id get one derived from their group key and position,
// so reloading an unchanged file yields an equal snapshot.
func ParseRegistry(content []byte) (domain.Registry, error) {
	var file RegistryFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return domain.Registry{}, err
	}

	seen := make(map[string]bool)
	claim := func(key string) error {
		if key == "" {
			return domain.ErrBlankName
		}
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateGroupKey, key)
		}
		seen[key] = true
		return nil
	}

	ruleGroups := make([]domain.RuleGroup, 0, len(file.RuleGroups))
	for i, def := range file.RuleGroups {
		if err := claim(def.Key); err != nil {
			return domain.Registry{}, fmt.Errorf("rule group %d: %w", i, err)
		}
		g, err := buildRuleGroup(def)
		if err != nil {
			return domain.Registry{}, fmt.Errorf("rule group %s: %w", def.Key, err)
		}
		ruleGroups = append(ruleGroups, g)
	}

	recipeGroups := make([]domain.RecipeGroup, 0, len(file.RecipeGroups))
	for i, def := range file.RecipeGroups {
		if err := claim(def.Key); err != nil {
			return domain.Registry{}, fmt.Errorf("recipe group %d: %w", i, err)
		}
		g, err := buildRecipeGroup(def)
		if err != nil {
			return domain.Registry{}, fmt.Errorf("recipe group %s: %w", def.Key, err)
		}
		recipeGroups = append(recipeGroups, g)
	}

	return domain.New(ruleGroups, recipeGroups), nil
}

func buildRuleGroup(def RuleGroupDef) (domain.RuleGroup, error) {
	category, err := domain.ParseCategory(def.Category)
	if err != nil {
		return domain.RuleGroup{}, err
	}
	g := domain.RuleGroup{
		Key:            def.Key,
		LineOfBusiness: def.LineOfBusiness,
		Category:       category,
	}
	for i, rd := range def.Rules {
		id := rd.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", def.Key, i+1)
		}
		lob := rd.LineOfBusiness
		if lob == "" {
			lob = def.LineOfBusiness
		}
		rule, err := domain.NewRule(rd.Key).
			ID(id).
			LineOfBusiness(lob).
			Category(category).
			Pattern(rd.Pattern).
			Suggestions(rd.Suggestions...).
			Build()
		if err != nil {
			return domain.RuleGroup{}, fmt.Errorf("rule %d: %w", i, err)
		}
		g.Rules = append(g.Rules, rule)
	}
	return g, nil
}

func buildRecipeGroup(def RecipeGroupDef) (domain.RecipeGroup, error) {
	g := domain.RecipeGroup{
		Key:            def.Key,
		LineOfBusiness: def.LineOfBusiness,
	}
	for i, rd := range def.Recipes {
		id := rd.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", def.Key, i+1)
		}
		lob := rd.LineOfBusiness
		if lob == "" {
			lob = def.LineOfBusiness
		}
		recipe := domain.Recipe{
			ID:             id,
			LineOfBusiness: lob,
			Name:           rd.Name,
			Description:    rd.Description,
			Tags:           rd.Tags,
		}
		if err := domain.ValidateRecipe(recipe); err != nil {
			return domain.RecipeGroup{}, fmt.Errorf("recipe %d: %w", i, err)
		}
		g.Recipes = append(g.Recipes, recipe)
	}
	return g, nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	appreg "github.com/javierhbr/test-inventory-sub000/internal/application/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/presentation"
)

// ErrRegistryInvalid is returned by `registry validate` when a rule or recipe
// has a problem.
var ErrRegistryInvalid = errors.New("registry has problems")

var regLineOfBusiness string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the rule and recipe registry",
	Long: `Inspect the rule and recipe registry file.

Rule groups and recipe groups share one key namespace. Groups are edited in
the console (run test-inventory without a subcommand); these commands only
read the file.

Examples:
  # All groups as JSON
  test-inventory registry list

  # Only retail groups, keys only
  test-inventory registry list --lob retail | jq '.[].key'

  # Check every rule pattern compiles
  test-inventory registry validate

  # Compare with another copy of the registry
  test-inventory registry diff ../main/.test-inventory/registry.yaml`,
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rule groups and recipe groups as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		service := newRegistryService()
		defer service.Close()

		reg, err := service.Load(cmd.Context())
		if err != nil {
			return err
		}
		return formatter(cmd).FormatGroups(presentation.FromDomainRegistry(reg, regLineOfBusiness))
	},
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report rules and recipes that cannot be used",
	Long: `Report rules and recipes that cannot be used.

A rule whose pattern does not compile is kept in the registry but never
accepts a tag. Each problem is printed on its own line; the command fails when
there is at least one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		service := newRegistryService()
		defer service.Close()

		reg, err := service.Load(cmd.Context())
		if err != nil {
			return err
		}
		problems := registryProblems(reg)
		if err := formatter(cmd).FormatLines(problems); err != nil {
			return err
		}
		if len(problems) > 0 {
			return fmt.Errorf("%w: %d found in %s", ErrRegistryInvalid, len(problems), service.Name())
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules, %d recipes, no problems\n",
			service.Name(), len(reg.SemanticRules()), len(reg.Recipes()))
		return err
	},
}

var registryDiffCmd = &cobra.Command{
	Use:   "diff <file>",
	Short: "Show the differences between the registry and another registry file",
	Long: `Show the differences between the registry and another registry file.

Both files are normalised before comparing, so formatting and group order do
not show up as changes. Lines only in <file> are prefixed with "+".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := newRegistryService()
		defer service.Close()

		current, err := service.Load(cmd.Context())
		if err != nil {
			return err
		}
		other, err := appreg.NewFileStore(args[0]).Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading %s: %w", args[0], err)
		}

		diff, err := appreg.Diff(current, other)
		if err != nil {
			return err
		}
		if diff == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "no differences")
			return err
		}
		added, removed := appreg.Stat(diff)
		f := formatter(cmd)
		if err := f.FormatText(diff); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d added, %d removed\n", added, removed)
		return err
	},
}

func init() {
	registryListCmd.Flags().StringVarP(&regLineOfBusiness, "lob", "l", "", "only groups of this line of business")

	registryCmd.AddCommand(registryListCmd, registryValidateCmd, registryDiffCmd)
	rootCmd.AddCommand(registryCmd)
}

// registryProblems describes every invalid rule and recipe, in group order.
func registryProblems(reg registry.Registry) []string {
	var problems []string
	for _, key := range reg.RuleGroupKeys() {
		g, _ := reg.RuleGroup(key)
		for _, r := range g.Rules {
			if err := registry.ValidateRule(r); err != nil {
				problems = append(problems, fmt.Sprintf("%s: rule %q: %v", key, r.Key, err))
			}
		}
	}
	for _, key := range reg.RecipeGroupKeys() {
		g, _ := reg.RecipeGroup(key)
		for _, r := range g.Recipes {
			if err := registry.ValidateRecipe(r); err != nil {
				problems = append(problems, fmt.Sprintf("%s: recipe %s: %v", key, r.ID, err))
			}
		}
	}
	return problems
}

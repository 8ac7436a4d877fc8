package cmd

import (
	"github.com/spf13/cobra"

	appclass "github.com/javierhbr/test-inventory-sub000/internal/application/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/presentation"
)

var recipesLineOfBusiness string

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List recipes and apply them to records",
	Long: `List recipes and apply them to records.

A recipe is a named bundle of tags. Applying a recipe merges its tags into a
record's set: a recipe tag whose key is already set replaces the existing
value, other tags are appended.

Examples:
  # Recipes offered for retail
  test-inventory recipes list --lob retail

  # Apply by name or id
  test-inventory recipes apply test T-100 "VIP checking"
  test-inventory recipes apply test-data D-7 p-new-saver`,
}

var recipesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		service := newRegistryService()
		defer service.Close()

		reg, err := service.Load(cmd.Context())
		if err != nil {
			return err
		}
		return formatter(cmd).FormatRecipes(presentation.FromDomainRecipes(reg.RecipesFor(recipesLineOfBusiness)))
	},
}

var recipesApplyCmd = &cobra.Command{
	Use:   "apply <kind> <id> <recipe>...",
	Short: "Merge recipes into the classification set of a record",
	Args:  cobra.MinimumNArgs(3),
	RunE: withTagService(func(cmd *cobra.Command, svc *appclass.TagService, args []string) error {
		kind, err := classification.ParseEntityKind(args[0])
		if err != nil {
			return err
		}
		rec, err := svc.ApplyRecipes(cmd.Context(), kind, args[1], args[2:]...)
		if err != nil {
			return err
		}
		return formatter(cmd).FormatRecord(presentation.FromDomainRecord(rec))
	}),
}

func init() {
	recipesListCmd.Flags().StringVarP(&recipesLineOfBusiness, "lob", "l", "", "only recipes of this line of business")

	recipesCmd.AddCommand(recipesListCmd, recipesApplyCmd)
	rootCmd.AddCommand(recipesCmd)
}

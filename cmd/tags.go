package cmd

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/javierhbr/test-inventory-sub000/internal/app"
	appclass "github.com/javierhbr/test-inventory-sub000/internal/application/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/presentation"
	"github.com/javierhbr/test-inventory-sub000/internal/ui/tageditor"
)

var (
	tagsLineOfBusiness string
	tagsChosen         []string
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Read and edit the classification set of a record",
	Long: `Read and edit the classification set of a test, test-data record or
execution cart.

Records are addressed by kind and id. Kind is one of test, test-data or
execution-cart. Semantic tags (key:value) are validated against the rules of
the registry; adding a tag whose key already has a value replaces that value.

Examples:
  # Tag a test
  test-inventory tags add test T-100 customer-type:vip smoke --lob retail

  # Show the set
  test-inventory tags show test T-100

  # What can follow "account:"?
  test-inventory tags suggest account: --lob retail

  # Edit interactively
  test-inventory tags edit test T-100 --lob retail`,
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <kind> <id> <tag>...",
	Short: "Add tags to a record",
	Args:  cobra.MinimumNArgs(3),
	RunE: withTagService(func(cmd *cobra.Command, svc *appclass.TagService, args []string) error {
		kind, err := classification.ParseEntityKind(args[0])
		if err != nil {
			return err
		}
		rec, outcomes, err := svc.Add(cmd.Context(), kind, args[1], tagsLineOfBusiness, splitTags(args[2:])...)
		if err != nil {
			return err
		}
		return formatter(cmd).FormatJSON(presentation.AddResultDTO{
			Record:   presentation.FromDomainRecord(rec),
			Outcomes: presentation.FromDomainOutcomes(outcomes),
		})
	}),
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove <kind> <id> <tag>...",
	Short: "Remove tags from a record",
	Args:  cobra.MinimumNArgs(3),
	RunE: withTagService(func(cmd *cobra.Command, svc *appclass.TagService, args []string) error {
		kind, err := classification.ParseEntityKind(args[0])
		if err != nil {
			return err
		}
		rec, removed, err := svc.Remove(cmd.Context(), kind, args[1], splitTags(args[2:])...)
		if err != nil {
			return err
		}
		if removed == nil {
			removed = []string{}
		}
		return formatter(cmd).FormatJSON(presentation.RemoveResultDTO{
			Record:  presentation.FromDomainRecord(rec),
			Removed: removed,
		})
	}),
}

var tagsShowCmd = &cobra.Command{
	Use:   "show <kind> <id>",
	Short: "Show the classification set of a record",
	Args:  cobra.ExactArgs(2),
	RunE: withTagService(func(cmd *cobra.Command, svc *appclass.TagService, args []string) error {
		kind, err := classification.ParseEntityKind(args[0])
		if err != nil {
			return err
		}
		rec, err := svc.Show(cmd.Context(), kind, args[1])
		if err != nil {
			return err
		}
		return formatter(cmd).FormatRecord(presentation.FromDomainRecord(rec))
	}),
}

var tagsFindCmd = &cobra.Command{
	Use:   "find <tag>",
	Short: "List the records carrying a tag",
	Args:  cobra.ExactArgs(1),
	RunE: withTagService(func(cmd *cobra.Command, svc *appclass.TagService, args []string) error {
		recs, err := svc.FindByTag(cmd.Context(), classification.Normalize(args[0]))
		if err != nil {
			return err
		}
		return formatter(cmd).FormatJSON(presentation.FromDomainRecords(recs))
	}),
}

var tagsSuggestCmd = &cobra.Command{
	Use:   "suggest [partial]",
	Short: "Print the suggestions for a partial tag, one per line",
	Long: `Print the suggestions for a partial tag, one per line.

An empty partial lists the rule keys ("customer-type:"). A partial ending in
":" lists that key's values. Tags passed with --chosen are left out, and a key
already chosen is not offered again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withTagService(func(cmd *cobra.Command, svc *appclass.TagService, args []string) error {
		partial := ""
		if len(args) == 1 {
			partial = args[0]
		}
		suggestions, err := svc.Suggest(cmd.Context(), partial, tagsLineOfBusiness, tagsChosen)
		if err != nil {
			return err
		}
		return formatter(cmd).FormatLines(suggestions)
	}),
}

var tagsValidateCmd = &cobra.Command{
	Use:   "validate <tag>...",
	Short: "Show how tags would be stored and which rule accepts them",
	Args:  cobra.MinimumNArgs(1),
	RunE: withTagService(func(cmd *cobra.Command, svc *appclass.TagService, args []string) error {
		vs, err := svc.Validate(cmd.Context(), tagsLineOfBusiness, splitTags(args)...)
		if err != nil {
			return err
		}
		return formatter(cmd).FormatJSON(presentation.FromValidations(vs))
	}),
}

var tagsEditCmd = &cobra.Command{
	Use:   "edit <kind> <id>",
	Short: "Edit the classification set of a record interactively",
	Args:  cobra.ExactArgs(2),
	RunE: withTagService(func(cmd *cobra.Command, svc *appclass.TagService, args []string) error {
		kind, err := classification.ParseEntityKind(args[0])
		if err != nil {
			return err
		}
		id := args[1]
		ctx := cmd.Context()

		rec, err := svc.Show(ctx, kind, id)
		if err != nil {
			return err
		}
		env, recipes, err := svc.Env(ctx, tagsLineOfBusiness)
		if err != nil {
			return err
		}

		editor := tageditor.New(fmt.Sprintf("%s/%s", kind, id), rec.Set, env, recipes)
		model := app.NewEditor(editor, func(ctx context.Context, set classification.Set) error {
			_, err := svc.SaveSet(ctx, kind, id, set)
			return err
		})
		final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		if err != nil {
			return fmt.Errorf("running editor: %w", err)
		}

		result := final.(app.Editor)
		if !result.Saved() {
			return result.Err()
		}
		saved, err := svc.Show(ctx, kind, id)
		if err != nil {
			return err
		}
		return formatter(cmd).FormatRecord(presentation.FromDomainRecord(saved))
	}),
}

func init() {
	for _, c := range []*cobra.Command{tagsAddCmd, tagsSuggestCmd, tagsValidateCmd, tagsEditCmd} {
		c.Flags().StringVarP(&tagsLineOfBusiness, "lob", "l", "", "line of business whose rules apply (default: all rules)")
	}
	tagsSuggestCmd.Flags().StringSliceVar(&tagsChosen, "chosen", nil, "tags already in the set (comma separated)")

	tagsCmd.AddCommand(tagsAddCmd, tagsRemoveCmd, tagsShowCmd, tagsFindCmd, tagsSuggestCmd, tagsValidateCmd, tagsEditCmd)
	rootCmd.AddCommand(tagsCmd)
}

// withTagService opens the database for the duration of one command.
func withTagService(run func(*cobra.Command, *appclass.TagService, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newTagService()
		if err != nil {
			return err
		}
		defer cleanup()
		return run(cmd, svc, args)
	}
}

func formatter(cmd *cobra.Command) *presentation.Formatter {
	return presentation.NewFormatter(cmd.OutOrStdout())
}

// splitTags accepts tags as separate arguments or comma separated, the way the
// tag editor accepts "," as a separator.
func splitTags(args []string) []string {
	var tags []string
	for _, a := range args {
		for _, t := range strings.Split(a, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

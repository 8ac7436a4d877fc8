package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/javierhbr/test-inventory-sub000/internal/config"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
)

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "List or extend the plain labels offered as suggestions",
}

var vocabularyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the vocabulary, one label per line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return formatter(cmd).FormatLines(cfg.Vocabulary)
	},
}

var vocabularyAddCmd = &cobra.Command{
	Use:   "add <label>...",
	Short: "Add labels to the vocabulary in the config file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			path = defaultConfigPath
		}
		next, err := config.AddVocabulary(path, cfg.Vocabulary, splitTags(args)...)
		if err != nil {
			return err
		}
		log.Info(log.CatConfig, "Vocabulary updated", "path", path, "labels", len(next))
		cfg.Vocabulary = next
		return formatter(cmd).FormatLines(next)
	},
}

func init() {
	vocabularyCmd.AddCommand(vocabularyListCmd, vocabularyAddCmd)
	rootCmd.AddCommand(vocabularyCmd)
}

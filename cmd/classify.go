package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var classifyBody string

// classifyCmd runs the keyword classifier against a title, useful for
// tuning the keyword tables.
var classifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Classify a title with the configured keyword tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		classifier, err := newClassifier(cfg)
		if err != nil {
			return err
		}
		title := strings.Join(args, " ")
		category := classifier.Classify(title, classifyBody)
		wpID, ok := cfg.WordPress.Categories[category]
		if !ok {
			wpID = cfg.WordPress.DefaultCategory
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (wordpress category %d)\n", category, wpID)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyBody, "body", "", "optional body text to include in matching")
	rootCmd.AddCommand(classifyCmd)
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wp-autopilot/internal/model"
	"wp-autopilot/internal/resolver"

	"github.com/spf13/cobra"
)

// resolveCmd fetches recent candidates for one configured source and
// prints which tier answered, without touching the CMS. Useful for
// diagnosing why a channel produces nothing.
var resolveCmd = &cobra.Command{
	Use:   "resolve <source-name>",
	Short: "Fetch recent items for a source and show the tier used",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		var src *model.Source
		for i := range cfg.Sources.Channels {
			if cfg.Sources.Channels[i].Name == args[0] {
				src = &cfg.Sources.Channels[i]
				break
			}
		}
		if src == nil {
			return fmt.Errorf("source not found in config: %s", args[0])
		}

		res, err := newResolver(cfg)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		items, tier, diag := res.FetchRecentItems(ctx, *src)

		out, err := json.MarshalIndent(struct {
			Source     string                   `json:"source"`
			Tier       resolver.Tier            `json:"tier"`
			Diagnostic string                   `json:"diagnostic"`
			Items      []model.ContentCandidate `json:"items"`
		}{src.Name, tier, diag, items}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"wp-autopilot/internal/notify"

	"github.com/spf13/cobra"
)

// notifyCmd fires the post-publish notifications for an arbitrary post,
// e.g. to re-ping search engines after a manual edit.
var notifyCmd = &cobra.Command{
	Use:   "notify <title> <link>",
	Short: "Send the post-publish notifications for a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		n := notify.New(cfg.Notify.SitemapURL, cfg.Notify.WebhookURL)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n.PublishedPost(ctx, args[0], args[1])
		fmt.Fprintln(cmd.OutOrStdout(), n.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

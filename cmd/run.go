package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wp-autopilot/internal/model"

	"github.com/spf13/cobra"
)

// runCmd executes a single publication attempt and prints the run
// summary as JSON. Meant for cron-style scheduling and manual testing.
var runCmd = &cobra.Command{
	Use:   "run [video|trend]",
	Short: "Run one publication attempt and print the result",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := model.SourceVideo
		if len(args) == 1 {
			switch strings.ToLower(args[0]) {
			case "video", "videos":
				kind = model.SourceVideo
			case "trend", "trends":
				kind = model.SourceTrendTopic
			default:
				return fmt.Errorf("unknown source kind: %s", args[0])
			}
		}

		cfg := GetConfig()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		orch, cleanup, err := buildOrchestrator(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := orch.Run(ctx, kind)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

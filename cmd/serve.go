package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wp-autopilot/internal/model"
	"wp-autopilot/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled publishing workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		orch, cleanup, err := buildOrchestrator(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		videoInterval, err := time.ParseDuration(cfg.Pipeline.VideoInterval)
		if err != nil {
			return fmt.Errorf("invalid pipeline.video_interval: %w", err)
		}
		trendsInterval, err := time.ParseDuration(cfg.Pipeline.TrendsInterval)
		if err != nil {
			return fmt.Errorf("invalid pipeline.trends_interval: %w", err)
		}

		ws := []worker.Worker{}
		if len(cfg.Sources.Channels) > 0 {
			slog.Info("starting video publisher", "channels", len(cfg.Sources.Channels), "interval", videoInterval)
			ws = append(ws, &worker.Publisher{Pipeline: orch, Kind: model.SourceVideo, Interval: videoInterval})
		}
		if cfg.Trends.FeedURL != "" {
			slog.Info("starting trends publisher", "feed", cfg.Trends.FeedURL, "interval", trendsInterval)
			ws = append(ws, &worker.Publisher{Pipeline: orch, Kind: model.SourceTrendTopic, Interval: trendsInterval})
		}
		if len(ws) == 0 {
			return fmt.Errorf("nothing to run: no source channels and no trends feed configured")
		}
		mgr := worker.NewManager(ws...)

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

package worker

import (
	"context"
	"log/slog"
	"time"

	"wp-autopilot/internal/model"
	"wp-autopilot/internal/pipeline"
)

// Publisher runs the publication pipeline for one source kind on an
// interval. A failed run is logged and retried at the next tick; the
// worker only exits on context cancellation.
type Publisher struct {
	Pipeline *pipeline.Orchestrator
	Kind     model.SourceKind
	Interval time.Duration
}

func (w *Publisher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 6 * time.Hour
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Publisher) runOnce(ctx context.Context) {
	res, err := w.Pipeline.Run(ctx, w.Kind)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("publisher: run failed", "kind", w.Kind, "error", err)
		return
	}
	if !res.Published {
		slog.Info("publisher: nothing to publish", "kind", w.Kind, "reason", res.Reason)
		return
	}
	slog.Info("publisher: published",
		"kind", w.Kind,
		"post_id", res.PostID,
		"link", res.Link,
		"source", res.Source,
		"tier", res.Tier,
	)
}

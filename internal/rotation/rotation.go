package rotation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"wp-autopilot/internal/model"
	"wp-autopilot/internal/state"
)

// Selector picks which content source to poll next in round-robin
// fashion. There is no persisted cursor by default: the last-used
// source is inferred from published content via the state store.
type Selector struct {
	Store state.Store
}

// Next returns the index of the source to try first this run. When no
// prior run can be inferred, rotation starts at index 0. A run that
// publishes nothing leaves the cursor unchanged, so the next run
// retries from the same starting point.
func (s *Selector) Next(ctx context.Context, sources []model.Source) (int, error) {
	if len(sources) == 0 {
		return 0, errors.New("rotation: no sources configured")
	}
	last, err := s.Store.LastSource(ctx)
	if err != nil {
		// Unreadable state degrades to the start of the ring.
		slog.Warn("rotation: last source lookup failed, starting at 0", "err", err)
		return 0, nil
	}
	if last == "" {
		return 0, nil
	}
	for i, src := range sources {
		if strings.EqualFold(src.Name, last) {
			return (i + 1) % len(sources), nil
		}
	}
	slog.Warn("rotation: last source not in configured ring, starting at 0", "last", last)
	return 0, nil
}

// Ring returns the full source list in rotation order starting at
// index start, wrapping around. The orchestrator walks it until a
// source yields a publishable candidate.
func Ring(sources []model.Source, start int) []model.Source {
	n := len(sources)
	if n == 0 {
		return nil
	}
	start = ((start % n) + n) % n
	out := make([]model.Source, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sources[(start+i)%n])
	}
	return out
}

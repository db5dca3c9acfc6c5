package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"wp-autopilot/internal/ai"
	"wp-autopilot/internal/article"
	"wp-autopilot/internal/classify"
	"wp-autopilot/internal/dedup"
	"wp-autopilot/internal/images"
	"wp-autopilot/internal/model"
	"wp-autopilot/internal/notify"
	"wp-autopilot/internal/resolver"
	"wp-autopilot/internal/rotation"
	"wp-autopilot/internal/state"
	"wp-autopilot/internal/wordpress"
)

// CMS is the slice of the WordPress client the orchestrator writes to.
type CMS interface {
	CreatePost(ctx context.Context, p wordpress.CreatePostParams) (wordpress.PostRef, error)
	GetOrCreateTag(ctx context.Context, name string) (int, error)
	UploadMedia(ctx context.Context, data []byte, contentType, filename string) (wordpress.MediaRef, error)
}

// TrendSource supplies trend-topic candidates.
type TrendSource interface {
	RecentTopics(ctx context.Context) ([]model.ContentCandidate, error)
}

// Orchestrator sequences one publication run: source selection, fetch,
// dedup, classification, generation, image sourcing, publish and
// notifications. Each run is sequential and short-lived; the only
// intra-run parallelism is image placeholder resolution.
type Orchestrator struct {
	CMS        CMS
	Resolver   *resolver.Resolver
	Trends     TrendSource
	Dedup      *dedup.Checker
	Rotation   *rotation.Selector
	Classifier *classify.Classifier
	Writer     ai.Writer
	Images     *images.Fetcher
	Notifier   *notify.Notifier
	Store      state.Store

	Sources         []model.Source
	Language        string
	Status          string
	RotationTag     string
	CategoryIDs     map[string]int // classifier category -> WP category ID
	DefaultCategory int
	JitterMax       time.Duration
}

// Result is the run summary reported to the caller as JSON.
type Result struct {
	Published   bool          `json:"published"`
	Source      string        `json:"source,omitempty"`
	Tier        resolver.Tier `json:"tier,omitempty"`
	Diagnostic  string        `json:"diagnostic,omitempty"`
	CandidateID string        `json:"candidate_id,omitempty"`
	Marker      string        `json:"marker,omitempty"`
	Title       string        `json:"title,omitempty"`
	Category    string        `json:"category,omitempty"`
	PostID      int           `json:"post_id,omitempty"`
	Link        string        `json:"link,omitempty"`
	Fallback    bool          `json:"fallback_article,omitempty"`
	Reason      string        `json:"reason,omitempty"`
}

// Run executes one publication attempt for the given source kind.
// "Nothing to publish" is a successful empty result, not an error; only
// a rejected publish call fails the run.
func (o *Orchestrator) Run(ctx context.Context, kind model.SourceKind) (Result, error) {
	// Randomized jitter desynchronizes simultaneous scheduled triggers.
	// Best-effort: overlapping runs are still possible, which is why the
	// duplicate check repeats right before publishing.
	if o.JitterMax > 0 {
		d := time.Duration(rand.Int63n(int64(o.JitterMax)))
		slog.Debug("pipeline: jitter delay", "delay", d)
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	switch kind {
	case model.SourceTrendTopic:
		return o.runTrends(ctx)
	default:
		return o.runVideos(ctx)
	}
}

func (o *Orchestrator) runVideos(ctx context.Context) (Result, error) {
	start, err := o.Rotation.Next(ctx, o.Sources)
	if err != nil {
		return Result{}, err
	}
	// Walk the full ring from the rotation cursor until a source yields
	// a publishable candidate or every source is exhausted.
	var lastDiag, lastSkip string
	for _, src := range rotation.Ring(o.Sources, start) {
		items, tier, diag := o.Resolver.FetchRecentItems(ctx, src)
		lastDiag = diag
		for _, cand := range items {
			if o.seen(ctx, cand) {
				continue
			}
			if dup, reason := o.Dedup.Check(ctx, cand); dup {
				slog.Info("pipeline: candidate already published", "marker", cand.Marker(), "reason", reason)
				continue
			}
			res, err := o.publish(ctx, cand, src.Name)
			if err != nil || res.Published {
				res.Source = src.Name
				res.Tier = tier
				res.Diagnostic = diag
				return res, err
			}
			// Publish was skipped (e.g. concurrent duplicate); try the
			// next candidate.
			lastSkip = res.Reason
		}
	}
	return Result{Published: false, Reason: emptyRunReason("no fresh non-duplicate candidate in any source", lastSkip), Diagnostic: lastDiag}, nil
}

// emptyRunReason folds the last per-candidate skip into the summary so
// an aborted publish is visible in the run's JSON output.
func emptyRunReason(base, lastSkip string) string {
	if lastSkip == "" {
		return base
	}
	return base + "; last candidate: " + lastSkip
}

func (o *Orchestrator) runTrends(ctx context.Context) (Result, error) {
	if o.Trends == nil {
		return Result{}, errors.New("pipeline: no trend source configured")
	}
	items, err := o.Trends.RecentTopics(ctx)
	if err != nil {
		// Same policy as an exhausted resolver chain: nothing to publish.
		slog.Warn("pipeline: trends fetch failed", "err", err)
		return Result{Published: false, Reason: fmt.Sprintf("trends fetch failed: %v", err)}, nil
	}
	var lastSkip string
	for _, cand := range items {
		if o.seen(ctx, cand) {
			continue
		}
		if dup, reason := o.Dedup.Check(ctx, cand); dup {
			slog.Info("pipeline: topic already published", "marker", cand.Marker(), "reason", reason)
			continue
		}
		res, err := o.publish(ctx, cand, "")
		if err != nil || res.Published {
			return res, err
		}
		lastSkip = res.Reason
	}
	return Result{Published: false, Reason: emptyRunReason("no fresh non-duplicate trend topic", lastSkip)}, nil
}

func (o *Orchestrator) seen(ctx context.Context, cand model.ContentCandidate) bool {
	if o.Store == nil {
		return false
	}
	seen, err := o.Store.SeenMarker(ctx, cand.Marker())
	if err != nil {
		slog.Warn("pipeline: marker cache lookup failed", "err", err)
		return false
	}
	return seen
}

// publish drafts, decorates and creates the post for a selected
// candidate. It returns Published=false without error when the
// last-instant duplicate re-check fires.
func (o *Orchestrator) publish(ctx context.Context, cand model.ContentCandidate, sourceName string) (Result, error) {
	marker := cand.Marker()
	category := o.Classifier.Classify(cand.Title, cand.BodyText)
	categoryID, ok := o.CategoryIDs[category]
	if !ok {
		categoryID = o.DefaultCategory
	}
	slog.Info("pipeline: candidate selected",
		"marker", marker,
		"title", cand.Title,
		"category", category,
	)

	title := cand.Title
	body := ""
	var tags []string
	usedFallback := false
	if o.Writer != nil {
		a, err := o.Writer.WriteArticle(ctx, cand, o.Language)
		if err == nil {
			title, body, tags = a.Title, a.HTML, a.Tags
		} else {
			slog.Warn("pipeline: article generation failed, using fallback template", "err", err)
		}
	}
	if body == "" {
		// Minimal templated publication from the raw title/description:
		// always publish something over always publishing AI copy.
		rendered, err := article.Render(article.Fallback(cand))
		if err != nil {
			return Result{}, fmt.Errorf("render fallback article: %w", err)
		}
		body = rendered
		usedFallback = true
	}

	featuredMedia := 0
	if o.Images != nil {
		body = o.Images.ResolvePlaceholders(ctx, body, o.CMS)
		featuredMedia = o.featuredImage(ctx, cand)
	}

	// Last-instant guard: time passed during generation and image
	// sourcing, and a concurrent run may have published this candidate.
	if dup, reason := o.Dedup.Check(ctx, cand); dup {
		slog.Warn("pipeline: duplicate appeared before publish, aborting", "marker", marker, "reason", reason)
		return Result{Published: false, Reason: fmt.Sprintf("duplicate before publish (%s)", reason)}, nil
	}

	body = strings.TrimRight(body, "\n") + "\n" + model.MarkerComment(marker) + "\n"
	meta := map[string]string{model.MarkerMetaKey: marker}
	if cand.SourceKind == model.SourceVideo {
		meta["youtube_source_id"] = cand.ExternalID
		// The rotation cursor is read back by matching this value
		// against the configured source names, so it must carry the
		// config name, not the upstream channel title.
		if sourceName != "" {
			meta["youtube_channel"] = sourceName
		} else {
			meta["youtube_channel"] = cand.OriginChannel
		}
	}

	ref, err := o.CMS.CreatePost(ctx, wordpress.CreatePostParams{
		Title:         title,
		Content:       body,
		Status:        o.Status,
		Categories:    []int{categoryID},
		Tags:          o.resolveTags(ctx, sourceName, tags),
		FeaturedMedia: featuredMedia,
		Meta:          meta,
	})
	if err != nil {
		// Nothing further to fall back to: surface as the run's failure.
		return Result{}, fmt.Errorf("publish failed: %w", err)
	}
	slog.Info("pipeline: published", "post_id", ref.ID, "link", ref.Link, "marker", marker)

	if o.Store != nil {
		if err := o.Store.MarkSeen(ctx, marker); err != nil {
			slog.Warn("pipeline: mark seen failed", "err", err)
		}
		if sourceName != "" {
			if err := o.Store.SetLastSource(ctx, sourceName); err != nil {
				slog.Warn("pipeline: record last source failed", "err", err)
			}
		}
	}
	o.Notifier.PublishedPost(ctx, title, ref.Link)

	return Result{
		Published:   true,
		CandidateID: cand.ExternalID,
		Marker:      marker,
		Title:       title,
		Category:    category,
		PostID:      ref.ID,
		Link:        ref.Link,
		Fallback:    usedFallback,
	}, nil
}

// featuredImage sources a cover image for the candidate. Failures are
// tolerated: the post simply goes out without a featured image.
func (o *Orchestrator) featuredImage(ctx context.Context, cand model.ContentCandidate) int {
	query := cand.Title
	if cand.OriginChannel != "" {
		query = cand.OriginChannel + " " + query
	}
	data, err := o.Images.FetchFirst(ctx, query)
	if err != nil {
		slog.Warn("pipeline: featured image unavailable", "query", query, "err", err)
		return 0
	}
	ref, err := o.CMS.UploadMedia(ctx, data, "image/webp", cand.Marker()+".webp")
	if err != nil {
		slog.Warn("pipeline: featured image upload failed", "err", err)
		return 0
	}
	return ref.ID
}

// resolveTags maps tag names to term IDs, creating missing ones. The
// rotation tag always comes first; it is how the next run infers the
// rotation cursor.
func (o *Orchestrator) resolveTags(ctx context.Context, sourceName string, extra []string) []int {
	names := make([]string, 0, len(extra)+2)
	if o.RotationTag != "" {
		names = append(names, o.RotationTag)
	}
	if sourceName != "" {
		names = append(names, sourceName)
	}
	names = append(names, extra...)

	seen := map[string]bool{}
	var ids []int
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		id, err := o.CMS.GetOrCreateTag(ctx, name)
		if err != nil {
			slog.Warn("pipeline: tag resolution failed, skipping", "tag", name, "err", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-sieve/app/classify"
	"github.com/lysyi3m/rss-sieve/app/database"
	"github.com/lysyi3m/rss-sieve/app/feed"
	"github.com/lysyi3m/rss-sieve/app/metrics"
)

// RetentionPeriod is how long an article is kept after it was scraped.
const RetentionPeriod = 180 * 24 * time.Hour

type RecategorizeReport struct {
	Scanned int
	Updated int
	Failed  int
}

// Maintainer runs the batch jobs that act on stored articles only.
type Maintainer struct {
	repo    database.ArticleRepository
	sources SourceRegistry
	labeler *classify.Labeler
	metrics *metrics.Metrics
}

func NewMaintainer(repo database.ArticleRepository, sources SourceRegistry, m *metrics.Metrics) *Maintainer {
	return &Maintainer{
		repo:    repo,
		sources: sources,
		labeler: classify.NewLabeler(),
		metrics: m,
	}
}

// Purge deletes articles scraped before now minus the retention period.
func (m *Maintainer) Purge(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-RetentionPeriod)

	deleted, err := m.repo.DeleteScrapedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge articles: %w", err)
	}

	m.metrics.ObservePurged(deleted)
	slog.Info("Purge completed", "cutoff", cutoff.UTC().Format(time.RFC3339), "deleted", deleted)

	return deleted, nil
}

// Recategorize recomputes tags, topics and category of every stored article
// from its stored title and summary with the current rules. Only rows whose
// labels changed are written.
func (m *Maintainer) Recategorize(ctx context.Context) (RecategorizeReport, error) {
	var report RecategorizeReport

	err := m.repo.ForEachLabelSource(ctx, func(row database.LabelSource) error {
		report.Scanned++

		source, ok := m.sources.Get(row.Source)
		if !ok {
			// Removed sources keep their articles but lose forced labels.
			source = feed.Source{Name: row.Source}
		}

		labels := m.labeler.Assign(source, row.Title, row.Summary)
		next := database.Labels{
			Category: labels.Category(),
			Tags:     labels.TagString(),
			Topics:   labels.TopicString(),
		}
		if next == (database.Labels{Category: row.Category, Tags: row.Tags, Topics: row.Topics}) {
			return nil
		}

		if err := m.repo.UpdateLabels(ctx, row.Key, next); err != nil {
			slog.Warn("Failed to update article labels", "key", row.Key, "error", err)
			report.Failed++
			return nil
		}

		report.Updated++
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to recategorize articles: %w", err)
	}

	m.metrics.ObserveRecategorized(report.Updated)
	slog.Info("Recategorize completed", "scanned", report.Scanned, "updated", report.Updated, "failed", report.Failed)

	return report, nil
}

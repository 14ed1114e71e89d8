package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/rss-sieve/app/classify"
	"github.com/lysyi3m/rss-sieve/app/database"
	"github.com/lysyi3m/rss-sieve/app/feed"
	"github.com/lysyi3m/rss-sieve/app/metrics"
)

const untitled = "No title"

// SweepReport summarizes one ingestion run over all configured sources.
type SweepReport struct {
	PerSource map[string]int
	Failed    []string
	Total     int
	Purged    int64
	Duration  time.Duration
}

// Ingestor runs entries through classification and stores the relevant
// ones. Storage uses insert-or-ignore keyed on the identity key, so repeated
// or overlapping sweeps never create duplicate rows.
type Ingestor struct {
	reader      FeedReader
	sources     SourceRegistry
	repo        database.ArticleRepository
	maintainer  *Maintainer
	metrics     *metrics.Metrics
	relevance   *classify.Relevance
	labeler     *classify.Labeler
	paywall     *classify.PaywallDetector
	ads         *classify.AdDetector
	concurrency int
	now         func() time.Time
}

func NewIngestor(reader FeedReader, sources SourceRegistry, repo database.ArticleRepository,
	maintainer *Maintainer, m *metrics.Metrics, concurrency int) *Ingestor {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Ingestor{
		reader:      reader,
		sources:     sources,
		repo:        repo,
		maintainer:  maintainer,
		metrics:     m,
		relevance:   classify.NewRelevance(),
		labeler:     classify.NewLabeler(),
		paywall:     classify.NewPaywallDetector(),
		ads:         classify.NewAdDetector(),
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Sweep purges expired articles and then ingests every source. A failing
// source is logged and reported without affecting the others.
func (i *Ingestor) Sweep(ctx context.Context) (SweepReport, error) {
	startedAt := i.now()
	report := SweepReport{PerSource: make(map[string]int)}

	if i.maintainer != nil {
		purged, err := i.maintainer.Purge(ctx, startedAt)
		if err != nil {
			slog.Error("Retention purge failed", "error", err)
		}
		report.Purged = purged
	}

	sources := i.sources.Sources()
	jobs := make(chan feed.Source)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	workers := min(i.concurrency, max(len(sources), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range jobs {
				count, err := i.IngestSource(ctx, source)

				mu.Lock()
				if err != nil {
					report.Failed = append(report.Failed, source.Name)
				} else {
					report.PerSource[source.Name] = count
					report.Total += count
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, source := range sources {
		select {
		case jobs <- source:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	sort.Strings(report.Failed)
	report.Duration = time.Since(startedAt)
	i.metrics.ObserveSweep(report.Duration)

	slog.Info("Sweep completed",
		"sources", len(sources),
		"failed", len(report.Failed),
		"new", report.Total,
		"purged", report.Purged,
		"duration", report.Duration)

	return report, ctx.Err()
}

// IngestSource reads one source and stores its relevant entries. It returns
// the number of articles that were new.
func (i *Ingestor) IngestSource(ctx context.Context, source feed.Source) (int, error) {
	entries, err := i.reader.Read(ctx, source)
	if err != nil {
		slog.Warn("Failed to read source", "source", source.Name, "error", err)
		i.metrics.ObserveSourceFailure(source.Name)
		return 0, fmt.Errorf("failed to read source %s: %w", source.Name, err)
	}

	session, err := i.repo.Session(ctx)
	if err != nil {
		i.metrics.ObserveSourceFailure(source.Name)
		return 0, fmt.Errorf("failed to open session for %s: %w", source.Name, err)
	}
	defer session.Close()

	scrapedAt := i.now().UTC()
	newCount := 0

	for _, entry := range entries {
		article, skip := i.prepare(source, entry, scrapedAt)
		if skip != "" {
			i.metrics.ObserveSkipped(skip)
			continue
		}

		inserted, err := session.InsertIgnore(ctx, article)
		if err != nil {
			slog.Warn("Failed to store article", "source", source.Name, "link", article.Link, "error", err)
			i.metrics.ObserveSkipped(metrics.SkipWriteError)
			continue
		}
		if !inserted {
			i.metrics.ObserveSkipped(metrics.SkipDuplicate)
			continue
		}

		newCount++
	}

	i.metrics.ObserveIngested(source.Name, newCount)
	slog.Info("Source ingested", "source", source.Name, "entries", len(entries), "new", newCount)

	return newCount, nil
}

// prepare turns an entry into an article, or returns the reason it was
// skipped.
func (i *Ingestor) prepare(source feed.Source, entry feed.Entry, scrapedAt time.Time) (database.Article, string) {
	link := strings.TrimSpace(entry.Link)
	if link == "" {
		return database.Article{}, metrics.SkipNoLink
	}

	title := classify.StripMarkup(entry.Title)
	if title == "" {
		title = untitled
	}
	summary := classify.StripMarkup(entry.Summary)

	if isAd, phrase := i.ads.IsAd(title, summary); isAd {
		slog.Debug("Entry skipped as advertisement", "source", source.Name, "link", link, "phrase", phrase)
		return database.Article{}, metrics.SkipAd
	}

	keep, reason := i.relevance.Run(source, title, summary, classify.StripMarkup(entry.Content))
	if !keep {
		return database.Article{}, metrics.SkipIrrelevant
	}

	labels := i.labeler.Assign(source, title, summary)
	if !source.AlwaysInclude && !classify.HasConcreteLabel(labels) {
		slog.Debug("Entry skipped without labels", "source", source.Name, "link", link, "reason", reason)
		return database.Article{}, metrics.SkipUnlabeled
	}

	paywalled, rule := i.paywall.Detect(source, title, summary)
	slog.Debug("Entry accepted", "source", source.Name, "link", link, "reason", reason, "paywall_rule", rule)

	return database.Article{
		Key:              IdentityKey(link),
		Title:            title,
		Link:             link,
		Summary:          summary,
		Source:           source.Name,
		Country:          source.Country,
		Category:         labels.Category(),
		Tags:             labels.TagString(),
		Topics:           labels.TopicString(),
		ScrapedAt:        scrapedAt,
		PublishedAt:      entry.PublishedAt,
		PaywallHeuristic: paywalled,
	}, ""
}

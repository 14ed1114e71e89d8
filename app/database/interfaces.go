package database

import (
	"context"
	"time"
)

// Session holds one acquired connection for a batch of inserts. Callers must
// Close it when the batch is done.
type Session interface {
	// InsertIgnore stores the article unless its key already exists.
	// It reports whether a new row was written.
	InsertIgnore(ctx context.Context, article Article) (bool, error)
	Close() error
}

type ArticleRepository interface {
	Session(ctx context.Context) (Session, error)

	List(ctx context.Context, filter ArticleFilter) ([]Article, error)
	Get(ctx context.Context, key string) (*Article, error)
	SetPaywallOverride(ctx context.Context, key string, override *bool) error

	DeleteScrapedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	ForEachLabelSource(ctx context.Context, fn func(LabelSource) error) error
	UpdateLabels(ctx context.Context, key string, labels Labels) error

	DistinctSources(ctx context.Context) ([]string, error)
	DistinctCountries(ctx context.Context) ([]string, error)
	CountByTopic(ctx context.Context, topics []string) ([]TopicCount, error)
	Stats(ctx context.Context) (Stats, error)
}

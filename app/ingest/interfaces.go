package ingest

import (
	"context"

	"github.com/lysyi3m/rss-sieve/app/feed"
)

// FeedReader fetches and parses the current entries of one source.
type FeedReader interface {
	Read(ctx context.Context, source feed.Source) ([]feed.Entry, error)
}

// SourceRegistry lists configured sources and resolves them by name.
type SourceRegistry interface {
	Sources() []feed.Source
	Get(name string) (feed.Source, bool)
}

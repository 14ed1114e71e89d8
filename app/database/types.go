package database

import (
	"errors"
	"time"
)

var ErrArticleNotFound = errors.New("article not found")

// Article is a stored news item. Key is the identity key derived from the
// article link and is the only deduplication criterion.
type Article struct {
	Key              string
	Title            string
	Link             string
	Summary          string
	Source           string
	Country          string
	Category         string
	Tags             string
	Topics           string
	ScrapedAt        time.Time
	PublishedAt      *time.Time
	PaywallHeuristic bool
	PaywallOverride  *bool
	Locale           string
}

// Paywalled returns the effective paywall status. A manual override, when
// present, always wins over the heuristic flag.
func (a Article) Paywalled() bool {
	if a.PaywallOverride != nil {
		return *a.PaywallOverride
	}
	return a.PaywallHeuristic
}

type ArticleFilter struct {
	Category  string
	Source    string
	Country   string
	Search    string
	Topics    []string
	Since     *time.Time
	Paywalled *bool
	Limit     int
}

// LabelSource carries the stored fields needed to recompute labels.
type LabelSource struct {
	Key      string `db:"url_hash"`
	Title    string `db:"title"`
	Summary  string `db:"summary"`
	Source   string `db:"source"`
	Category string `db:"category"`
	Tags     string `db:"tags"`
	Topics   string `db:"topics"`
}

type Labels struct {
	Category string
	Tags     string
	Topics   string
}

type TopicCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Stats struct {
	Total       int
	LGBTQIA     int
	Women       int
	Paywalled   int
	LastScraped *time.Time
}

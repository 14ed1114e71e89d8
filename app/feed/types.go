package feed

import (
	"time"
)

// Feed processing types

// Entry is a single item read from a source, before any classification.
type Entry struct {
	Title       string
	Summary     string
	Content     string
	Link        string
	PublishedAt *time.Time // nil when the feed has no parseable date
}

// Configuration types

type Source struct {
	Name          string   `yaml:"name"`
	URL           string   `yaml:"url"`
	Country       string   `yaml:"country"`
	AlwaysInclude bool     `yaml:"always_include"` // every entry bypasses relevance filtering
	Paywalled     bool     `yaml:"paywalled"`      // every entry is flagged as paywalled
	ForceTags     []string `yaml:"force_tags"`
	ForceTopics   []string `yaml:"force_topics"`
	MaxItems      int      `yaml:"max_items"`
	Timeout       int      `yaml:"timeout"` // seconds
}

type SourcesFile struct {
	Sources []Source `yaml:"sources"`
}

package api

import (
	"context"
	"time"

	"github.com/lysyi3m/rss-sieve/app/database"
	"github.com/lysyi3m/rss-sieve/app/tasks"
)

// Store is the part of the article repository the HTTP layer reads and
// writes.
type Store interface {
	List(ctx context.Context, filter database.ArticleFilter) ([]database.Article, error)
	Get(ctx context.Context, key string) (*database.Article, error)
	SetPaywallOverride(ctx context.Context, key string, override *bool) error
	DistinctSources(ctx context.Context) ([]string, error)
	DistinctCountries(ctx context.Context) ([]string, error)
	CountByTopic(ctx context.Context, topics []string) ([]database.TopicCount, error)
	Stats(ctx context.Context) (database.Stats, error)
}

type TaskSubmitter interface {
	Submit(taskType tasks.TaskType) (string, error)
}

var _ Store = (database.ArticleRepository)(nil)
var _ TaskSubmitter = (tasks.TaskSchedulerInterface)(nil)

type ArticleResponse struct {
	Key              string  `json:"key"`
	Title            string  `json:"title"`
	Link             string  `json:"link"`
	Summary          string  `json:"summary"`
	Source           string  `json:"source"`
	Country          string  `json:"country"`
	Category         string  `json:"category"`
	Tags             string  `json:"tags"`
	Topics           string  `json:"topics"`
	Locale           string  `json:"locale"`
	ScrapedAt        string  `json:"scraped_at"`
	PublishedAt      *string `json:"published_at"`
	IsPaywalled      bool    `json:"is_paywalled"`
	PaywallHeuristic bool    `json:"paywall_heuristic"`
	PaywallOverride  *bool   `json:"paywall_override"`
}

func newArticleResponse(article database.Article) ArticleResponse {
	response := ArticleResponse{
		Key:              article.Key,
		Title:            article.Title,
		Link:             article.Link,
		Summary:          article.Summary,
		Source:           article.Source,
		Country:          article.Country,
		Category:         article.Category,
		Tags:             article.Tags,
		Topics:           article.Topics,
		Locale:           article.Locale,
		ScrapedAt:        article.ScrapedAt.UTC().Format(time.RFC3339),
		IsPaywalled:      article.Paywalled(),
		PaywallHeuristic: article.PaywallHeuristic,
		PaywallOverride:  article.PaywallOverride,
	}

	if article.PublishedAt != nil {
		published := article.PublishedAt.UTC().Format(time.RFC3339)
		response.PublishedAt = &published
	}

	return response
}

type StatsResponse struct {
	Total       int     `json:"total"`
	LGBTQIA     int     `json:"lgbtqia_plus"`
	Women       int     `json:"women"`
	Paywalled   int     `json:"paywalled"`
	LastScraped *string `json:"last_scraped"`
}

type TaskResponse struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// PaywallOverrideRequest sets the manual paywall status. A null override
// clears it so the heuristic applies again.
type PaywallOverrideRequest struct {
	Override *bool `json:"override"`
}

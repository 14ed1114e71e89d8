package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/lysyi3m/rss-sieve/app/cache"
	"github.com/lysyi3m/rss-sieve/app/classify"
	"github.com/lysyi3m/rss-sieve/app/database"
	"github.com/lysyi3m/rss-sieve/app/tasks"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
)

type Handler struct {
	store     Store
	cache     cache.Cache
	scheduler TaskSubmitter
	generator *RSSGenerator
	version   string
	now       func() time.Time
}

func NewHandler(store Store, responseCache cache.Cache, scheduler TaskSubmitter,
	generator *RSSGenerator, version string) *Handler {
	if responseCache == nil {
		responseCache = cache.Noop{}
	}

	return &Handler{
		store:     store,
		cache:     responseCache,
		scheduler: scheduler,
		generator: generator,
		version:   version,
		now:       time.Now,
	}
}

func (h *Handler) ListArticles(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.cached(c, contentTypeJSON, func() ([]byte, error) {
		articles, err := h.store.List(c.Request.Context(), filter)
		if err != nil {
			return nil, err
		}
		return json.Marshal(lo.Map(articles, func(article database.Article, _ int) ArticleResponse {
			return newArticleResponse(article)
		}))
	})
}

func (h *Handler) ListSources(c *gin.Context) {
	h.cached(c, contentTypeJSON, func() ([]byte, error) {
		sources, err := h.store.DistinctSources(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return json.Marshal(lo.Ternary(sources == nil, []string{}, sources))
	})
}

func (h *Handler) ListCountries(c *gin.Context) {
	h.cached(c, contentTypeJSON, func() ([]byte, error) {
		countries, err := h.store.DistinctCountries(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return json.Marshal(lo.Ternary(countries == nil, []string{}, countries))
	})
}

func (h *Handler) ListTopics(c *gin.Context) {
	h.cached(c, contentTypeJSON, func() ([]byte, error) {
		counts, err := h.store.CountByTopic(c.Request.Context(), classify.Topics())
		if err != nil {
			return nil, err
		}
		return json.Marshal(counts)
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	h.cached(c, contentTypeJSON, func() ([]byte, error) {
		stats, err := h.store.Stats(c.Request.Context())
		if err != nil {
			return nil, err
		}

		response := StatsResponse{
			Total:     stats.Total,
			LGBTQIA:   stats.LGBTQIA,
			Women:     stats.Women,
			Paywalled: stats.Paywalled,
		}
		if stats.LastScraped != nil {
			lastScraped := stats.LastScraped.UTC().Format(time.RFC3339)
			response.LastScraped = &lastScraped
		}

		return json.Marshal(response)
	})
}

// GetFeed exports the filtered article list as RSS 2.0.
func (h *Handler) GetFeed(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	h.cached(c, contentTypeXML, func() ([]byte, error) {
		articles, err := h.store.List(c.Request.Context(), filter)
		if err != nil {
			return nil, err
		}
		rss, err := h.generator.Run(articles)
		if err != nil {
			return nil, err
		}
		return []byte(rss), nil
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"timestamp": h.now().In(time.Local).Format(time.RFC3339),
	}

	if stats, err := h.store.Stats(c.Request.Context()); err == nil {
		health["articles"] = stats.Total
	} else {
		slog.Error("Database error", "operation", "stats", "error", err)
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APISweep(c *gin.Context) {
	h.submit(c, tasks.TaskTypeSweep)
}

func (h *Handler) APIRecategorize(c *gin.Context) {
	h.submit(c, tasks.TaskTypeRecategorize)
}

func (h *Handler) APIPurge(c *gin.Context) {
	h.submit(c, tasks.TaskTypePurge)
}

func (h *Handler) APISetPaywallOverride(c *gin.Context) {
	key := c.Param("key")

	var request PaywallOverrideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.SetPaywallOverride(ctx, key, request.Override); err != nil {
		if errors.Is(err, database.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		slog.Error("Database error", "operation", "set_paywall_override", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.invalidate(c)

	article, err := h.store.Get(ctx, key)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Paywall override updated", "key", key, "override", request.Override)
	c.JSON(http.StatusOK, newArticleResponse(*article))
}

func (h *Handler) submit(c *gin.Context, taskType tasks.TaskType) {
	id, err := h.scheduler.Submit(taskType)
	if err != nil {
		slog.Error("Error enqueueing task", "type", string(taskType), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, TaskResponse{
		ID:     id,
		Type:   string(taskType),
		Status: "queued",
	})
}

// cached serves a read response from the cache, rendering and storing it on
// a miss. Cache failures only cost a re-render.
func (h *Handler) cached(c *gin.Context, contentType string, render func() ([]byte, error)) {
	ctx := c.Request.Context()
	key := c.Request.URL.Path + "?" + c.Request.URL.Query().Encode()

	body, hit, err := h.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Cache lookup failed", "key", key, "error", err)
	}
	if hit {
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, contentType, body)
		return
	}

	body, err = render()
	if err != nil {
		slog.Error("Database error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.cache.Set(ctx, key, body); err != nil {
		slog.Warn("Cache store failed", "key", key, "error", err)
	}

	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, contentType, body)
}

func (h *Handler) invalidate(c *gin.Context) {
	if err := h.cache.Invalidate(c.Request.Context()); err != nil {
		slog.Warn("Failed to invalidate response cache", "error", err)
	}
}

func (h *Handler) parseFilter(c *gin.Context) (database.ArticleFilter, error) {
	filter := database.ArticleFilter{
		Category: c.Query("category"),
		Source:   c.Query("source"),
		Country:  c.Query("country"),
		Search:   c.Query("search"),
		Limit:    database.DefaultListLimit,
	}

	if topic := c.Query("topic"); topic != "" {
		filter.Topics = lo.Compact(lo.Map(strings.Split(topic, ","), func(value string, _ int) string {
			return strings.TrimSpace(value)
		}))
	}

	if label := c.Query("time"); label != "" {
		filter.Since = ResolveSince(label, h.now())
	}

	if raw := c.Query("paywalled"); raw != "" {
		paywalled, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("paywalled must be true or false")
		}
		filter.Paywalled = &paywalled
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}

// ResolveSince maps a named time window to its lower bound in the local
// time zone. Unknown labels apply no bound.
func ResolveSince(label string, now time.Time) *time.Time {
	now = now.In(time.Local)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysSinceMonday := (int(now.Weekday()) + 6) % 7

	var since time.Time
	switch label {
	case "today":
		since = midnight
	case "this_week":
		since = midnight.AddDate(0, 0, -daysSinceMonday)
	case "last_week":
		since = midnight.AddDate(0, 0, -daysSinceMonday-7)
	case "last_month":
		since = now.AddDate(0, 0, -30)
	case "last_year":
		since = now.AddDate(0, 0, -365)
	default:
		return nil
	}

	return &since
}

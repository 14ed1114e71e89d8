package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/rss-sieve/app/database"
	"github.com/lysyi3m/rss-sieve/app/metrics"
	"github.com/lysyi3m/rss-sieve/app/tasks"
)

const testAPIKey = "secret-key"

type fakeScheduler struct {
	mu        sync.Mutex
	submitted []tasks.TaskType
	err       error
}

func (s *fakeScheduler) Submit(taskType tasks.TaskType) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	s.submitted = append(s.submitted, taskType)
	return "task-" + string(taskType), nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	cleared int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCache) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	m.cleared++
	return nil
}

func (m *memoryCache) Close() error {
	return nil
}

type testServer struct {
	engine    http.Handler
	repo      *database.ArticleRepo
	scheduler *fakeScheduler
	cache     *memoryCache
	handler   *Handler
}

func newTestServer(t *testing.T, apiAccessKey string) *testServer {
	t.Helper()

	db, err := database.NewConnection("", filepath.Join(t.TempDir(), "news.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, _, err = database.RunMigrations(db)
	require.NoError(t, err)

	repo := database.NewArticleRepository(db)
	scheduler := &fakeScheduler{}
	responseCache := newMemoryCache()
	handler := NewHandler(repo, responseCache, scheduler, NewRSSGenerator("https://sieve.example.com", "test"), "test")

	return &testServer{
		engine:    NewServer(handler, metrics.New(), apiAccessKey),
		repo:      repo,
		scheduler: scheduler,
		cache:     responseCache,
		handler:   handler,
	}
}

func (s *testServer) seed(t *testing.T, articles ...database.Article) {
	t.Helper()

	ctx := context.Background()
	session, err := s.repo.Session(ctx)
	require.NoError(t, err)
	defer session.Close()

	for _, article := range articles {
		_, err := session.InsertIgnore(ctx, article)
		require.NoError(t, err)
	}
}

func (s *testServer) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var value T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value))
	return value
}

var scrapedAt = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func seedDefault(t *testing.T, s *testServer) {
	t.Helper()

	published := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)
	s.seed(t,
		database.Article{
			Key:              "key-march",
			Title:            "Trans rights march draws thousands",
			Link:             "https://world.example.com/march",
			Summary:          "Marchers gathered downtown.",
			Source:           "World Desk",
			Country:          "UK",
			Category:         "lgbtqia+",
			Tags:             "lgbtqia+",
			Topics:           "LGBTQIA+, Law & Policy",
			ScrapedAt:        scrapedAt,
			PublishedAt:      &published,
			PaywallHeuristic: true,
		},
		database.Article{
			Key:       "key-clinic",
			Title:     "Women's clinic reopens",
			Link:      "https://ledger.example.com/clinic",
			Source:    "The Ledger",
			Country:   "US",
			Category:  "women",
			Tags:      "women",
			Topics:    "Health & Medicine",
			ScrapedAt: scrapedAt.Add(-time.Hour),
		},
	)
}

func TestListArticles(t *testing.T) {
	s := newTestServer(t, "")
	seedDefault(t, s)

	rec := s.do(t, http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	articles := decode[[]ArticleResponse](t, rec)
	require.Len(t, articles, 2)

	march := articles[0]
	assert.Equal(t, "key-march", march.Key)
	assert.Equal(t, "2024-03-13T12:00:00Z", march.ScrapedAt)
	require.NotNil(t, march.PublishedAt)
	assert.Equal(t, "2024-03-12T08:00:00Z", *march.PublishedAt)
	assert.True(t, march.IsPaywalled)
	assert.True(t, march.PaywallHeuristic)
	assert.Nil(t, march.PaywallOverride)
	assert.Equal(t, "en", march.Locale)

	assert.Nil(t, articles[1].PublishedAt)
}

func TestListArticles_Filters(t *testing.T) {
	s := newTestServer(t, "")
	seedDefault(t, s)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"category", "category=women", []string{"key-clinic"}},
		{"source", "source=World+Desk", []string{"key-march"}},
		{"country", "country=US", []string{"key-clinic"}},
		{"search", "search=clinic", []string{"key-clinic"}},
		{"topic list", "topic=Health,Sports", []string{"key-clinic"}},
		{"paywalled", "paywalled=true", []string{"key-march"}},
		{"not paywalled", "paywalled=false", []string{"key-clinic"}},
		{"limit", "limit=1", []string{"key-march"}},
		{"unknown time label", "time=someday", []string{"key-march", "key-clinic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/articles?"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)

			articles := decode[[]ArticleResponse](t, rec)
			keys := make([]string, 0, len(articles))
			for _, article := range articles {
				keys = append(keys, article.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestListArticles_TimeFilter(t *testing.T) {
	s := newTestServer(t, "")
	seedDefault(t, s)
	s.handler.now = func() time.Time { return scrapedAt.Add(40 * 24 * time.Hour) }

	rec := s.do(t, http.MethodGet, "/api/articles?time=last_month", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]ArticleResponse](t, rec))

	rec = s.do(t, http.MethodGet, "/api/articles?time=last_year", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ArticleResponse](t, rec), 2)
}

func TestListArticles_InvalidParams(t *testing.T) {
	s := newTestServer(t, "")

	for _, query := range []string{"limit=abc", "limit=0", "paywalled=maybe"} {
		rec := s.do(t, http.MethodGet, "/api/articles?"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestReadEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	seedDefault(t, s)

	rec := s.do(t, http.MethodGet, "/api/sources", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"The Ledger", "World Desk"}, decode[[]string](t, rec))

	rec = s.do(t, http.MethodGet, "/api/countries", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"UK", "US"}, decode[[]string](t, rec))

	rec = s.do(t, http.MethodGet, "/api/topics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	topics := decode[[]database.TopicCount](t, rec)
	assert.Len(t, topics, 12)
	assert.Equal(t, 1, topics[0].Count)

	rec = s.do(t, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[StatsResponse](t, rec)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.LGBTQIA)
	assert.Equal(t, 1, stats.Women)
	assert.Equal(t, 1, stats.Paywalled)
	require.NotNil(t, stats.LastScraped)
	assert.Equal(t, "2024-03-13T12:00:00Z", *stats.LastScraped)
}

func TestReadEndpoints_EmptyDatabase(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/api/sources", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/articles", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/stats", "", nil)
	assert.JSONEq(t, `{"total":0,"lgbtqia_plus":0,"women":0,"paywalled":0,"last_scraped":null}`, rec.Body.String())
}

func TestResponseCache(t *testing.T) {
	s := newTestServer(t, testAPIKey)
	seedDefault(t, s)

	first := s.do(t, http.MethodGet, "/api/stats", "", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := s.do(t, http.MethodGet, "/api/stats", "", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec := s.do(t, http.MethodPut, "/api/articles/key-march/paywall-override", `{"override": false}`,
		map[string]string{"X-API-Key": testAPIKey})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, s.cache.cleared)

	third := s.do(t, http.MethodGet, "/api/stats", "", nil)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 0, decode[StatsResponse](t, third).Paywalled)
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"wrong bearer", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"header key", map[string]string{"X-API-Key": testAPIKey}, http.StatusAccepted},
		{"bearer key", map[string]string{"Authorization": "Bearer " + testAPIKey}, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/sweep", "", tt.headers)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, []tasks.TaskType{tasks.TaskTypeSweep, tasks.TaskTypeSweep}, s.scheduler.submitted)
}

func TestMaintenanceEndpointsDisabledWithoutKey(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/api/sweep", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, s.scheduler.submitted)
}

func TestSubmitTasks(t *testing.T) {
	s := newTestServer(t, testAPIKey)
	headers := map[string]string{"X-API-Key": testAPIKey}

	for _, taskType := range []tasks.TaskType{tasks.TaskTypeSweep, tasks.TaskTypeRecategorize, tasks.TaskTypePurge} {
		rec := s.do(t, http.MethodPost, "/api/"+string(taskType), "", headers)
		require.Equal(t, http.StatusAccepted, rec.Code)

		response := decode[TaskResponse](t, rec)
		assert.Equal(t, "task-"+string(taskType), response.ID)
		assert.Equal(t, string(taskType), response.Type)
		assert.Equal(t, "queued", response.Status)
	}

	s.scheduler.err = errors.New("task queue is full")
	rec := s.do(t, http.MethodPost, "/api/recategorize", "", headers)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSetPaywallOverride(t *testing.T) {
	s := newTestServer(t, testAPIKey)
	seedDefault(t, s)
	headers := map[string]string{"X-API-Key": testAPIKey}
	target := "/api/articles/key-clinic/paywall-override"

	rec := s.do(t, http.MethodPut, target, `{"override": true}`, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	article := decode[ArticleResponse](t, rec)
	assert.True(t, article.IsPaywalled)
	assert.False(t, article.PaywallHeuristic)
	require.NotNil(t, article.PaywallOverride)
	assert.True(t, *article.PaywallOverride)

	rec = s.do(t, http.MethodPut, target, `{"override": null}`, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	article = decode[ArticleResponse](t, rec)
	assert.False(t, article.IsPaywalled)
	assert.Nil(t, article.PaywallOverride)

	rec = s.do(t, http.MethodPut, "/api/articles/missing/paywall-override", `{"override": true}`, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, target, `not json`, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, target, `{"override": true}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetFeed(t *testing.T) {
	s := newTestServer(t, "")
	seedDefault(t, s)

	rec := s.do(t, http.MethodGet, "/feed.xml?category=women", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Women&#39;s clinic reopens</title>")
	assert.NotContains(t, rec.Body.String(), "Trans rights march")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, "")
	seedDefault(t, s)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 2, health["articles"])

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestResolveSince(t *testing.T) {
	// Wednesday afternoon.
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.Local)

	tests := []struct {
		label string
		want  time.Time
	}{
		{"today", time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local)},
		{"this_week", time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)},
		{"last_week", time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)},
		{"last_month", now.AddDate(0, 0, -30)},
		{"last_year", now.AddDate(0, 0, -365)},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			since := ResolveSince(tt.label, now)
			require.NotNil(t, since)
			assert.True(t, tt.want.Equal(*since), "got %s", since)
		})
	}

	assert.Nil(t, ResolveSince("", now))
	assert.Nil(t, ResolveSince("forever", now))

	sunday := time.Date(2024, 3, 17, 9, 0, 0, 0, time.Local)
	since := ResolveSince("this_week", sunday)
	require.NotNil(t, since)
	assert.True(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local).Equal(*since))
}

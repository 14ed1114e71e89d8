package database

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

const (
	DefaultListLimit = 200
	DefaultLocale    = "en"
)

// Timestamps are stored as RFC3339 UTC text at second resolution so that
// string comparison orders them chronologically on both backends.
const timeLayout = time.RFC3339

// Rows written before timestamps were normalized carry a naive ISO format.
var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var articleColumns = []string{
	"COALESCE(url_hash, '') AS url_hash",
	"COALESCE(title, '') AS title",
	"COALESCE(link, '') AS link",
	"COALESCE(summary, '') AS summary",
	"COALESCE(source, '') AS source",
	"COALESCE(country, '') AS country",
	"COALESCE(category, '') AS category",
	"COALESCE(tags, '') AS tags",
	"COALESCE(topics, '') AS topics",
	"COALESCE(scraped_at, '') AS scraped_at",
	"published_at",
	"is_paywalled",
	"paywall_override",
	"COALESCE(locale, '') AS locale",
}

const effectivePaywall = "COALESCE(paywall_override, is_paywalled)"

const insertArticleQuery = `
	INSERT INTO articles (
		url_hash, title, link, summary, source, country,
		category, tags, topics, scraped_at, published_at, is_paywalled, locale
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (url_hash) DO NOTHING`

type articleRow struct {
	Key             string         `db:"url_hash"`
	Title           string         `db:"title"`
	Link            string         `db:"link"`
	Summary         string         `db:"summary"`
	Source          string         `db:"source"`
	Country         string         `db:"country"`
	Category        string         `db:"category"`
	Tags            string         `db:"tags"`
	Topics          string         `db:"topics"`
	ScrapedAt       string         `db:"scraped_at"`
	PublishedAt     sql.NullString `db:"published_at"`
	IsPaywalled     sql.NullBool   `db:"is_paywalled"`
	PaywallOverride sql.NullBool   `db:"paywall_override"`
	Locale          string         `db:"locale"`
}

func (r articleRow) toArticle() Article {
	article := Article{
		Key:              r.Key,
		Title:            r.Title,
		Link:             r.Link,
		Summary:          r.Summary,
		Source:           r.Source,
		Country:          r.Country,
		Category:         r.Category,
		Tags:             r.Tags,
		Topics:           r.Topics,
		PaywallHeuristic: r.IsPaywalled.Valid && r.IsPaywalled.Bool,
		Locale:           r.Locale,
	}

	if t := parseTime(r.ScrapedAt); t != nil {
		article.ScrapedAt = *t
	}
	if r.PublishedAt.Valid {
		article.PublishedAt = parseTime(r.PublishedAt.String)
	}
	if r.PaywallOverride.Valid {
		override := r.PaywallOverride.Bool
		article.PaywallOverride = &override
	}

	return article
}

var _ ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo handles database operations for articles
type ArticleRepo struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

func (r *ArticleRepo) Session(ctx context.Context) (Session, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &articleSession{conn: conn, insert: conn.Rebind(insertArticleQuery)}, nil
}

type articleSession struct {
	conn   *sqlx.Conn
	insert string
}

func (s *articleSession) InsertIgnore(ctx context.Context, a Article) (bool, error) {
	var publishedAt sql.NullString
	if a.PublishedAt != nil {
		publishedAt = sql.NullString{String: formatTime(*a.PublishedAt), Valid: true}
	}

	result, err := s.conn.ExecContext(ctx, s.insert,
		a.Key, a.Title, a.Link, a.Summary, a.Source, a.Country,
		a.Category, a.Tags, a.Topics, formatTime(a.ScrapedAt), publishedAt,
		a.PaywallHeuristic, cmp.Or(a.Locale, DefaultLocale))
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

func (s *articleSession) Close() error {
	return s.conn.Close()
}

// List returns articles matching the filter, newest scrape first.
func (r *ArticleRepo) List(ctx context.Context, filter ArticleFilter) ([]Article, error) {
	like := r.db.Dialect.Like
	query := sq.Select(articleColumns...).From("articles").PlaceholderFormat(r.db.Dialect.Placeholder)

	if filter.Category != "" {
		query = query.Where(sq.Or{
			sq.Eq{"category": filter.Category},
			sq.Expr("tags "+like+" ?", "%"+filter.Category+"%"),
		})
	}
	if filter.Source != "" {
		query = query.Where(sq.Eq{"source": filter.Source})
	}
	if filter.Country != "" {
		query = query.Where(sq.Eq{"country": filter.Country})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(sq.Or{
			sq.Expr("title "+like+" ?", pattern),
			sq.Expr("summary "+like+" ?", pattern),
		})
	}

	topics := lo.Compact(lo.Map(filter.Topics, func(topic string, _ int) string {
		return strings.TrimSpace(topic)
	}))
	if len(topics) > 0 {
		query = query.Where(sq.Or(lo.Map(topics, func(topic string, _ int) sq.Sqlizer {
			return sq.Expr("topics "+like+" ?", "%"+topic+"%")
		})))
	}

	if filter.Since != nil {
		query = query.Where(sq.GtOrEq{"scraped_at": formatTime(*filter.Since)})
	}
	if filter.Paywalled != nil {
		query = query.Where(sq.Eq{effectivePaywall: *filter.Paywalled})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query = query.OrderBy("scraped_at DESC", "id DESC").Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}

	var rows []articleRow
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return lo.Map(rows, func(row articleRow, _ int) Article {
		return row.toArticle()
	}), nil
}

func (r *ArticleRepo) Get(ctx context.Context, key string) (*Article, error) {
	query := r.db.Rebind("SELECT " + strings.Join(articleColumns, ", ") + " FROM articles WHERE url_hash = ?")

	var row articleRow
	err := r.db.GetContext(ctx, &row, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	article := row.toArticle()
	return &article, nil
}

// SetPaywallOverride stores a manual paywall decision. A nil override clears
// it so the heuristic flag applies again.
func (r *ArticleRepo) SetPaywallOverride(ctx context.Context, key string, override *bool) error {
	var value sql.NullBool
	if override != nil {
		value = sql.NullBool{Bool: *override, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE articles SET paywall_override = ? WHERE url_hash = ?"), value, key)
	if err != nil {
		return fmt.Errorf("failed to update paywall override: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrArticleNotFound
	}

	return nil
}

// DeleteScrapedBefore removes articles scraped strictly before cutoff.
func (r *ArticleRepo) DeleteScrapedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind("DELETE FROM articles WHERE scraped_at < ?"), formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired articles: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return deleted, nil
}

// ForEachLabelSource loads the label inputs of every stored article and calls
// fn for each one. Rows are fully read before fn runs so that fn may write
// through the same pool.
func (r *ArticleRepo) ForEachLabelSource(ctx context.Context, fn func(LabelSource) error) error {
	var sources []LabelSource
	err := r.db.SelectContext(ctx, &sources, `
		SELECT COALESCE(url_hash, '') AS url_hash, COALESCE(title, '') AS title,
		       COALESCE(summary, '') AS summary, COALESCE(source, '') AS source,
		       COALESCE(category, '') AS category, COALESCE(tags, '') AS tags,
		       COALESCE(topics, '') AS topics
		FROM articles
		ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load label sources: %w", err)
	}

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(source); err != nil {
			return err
		}
	}

	return nil
}

func (r *ArticleRepo) UpdateLabels(ctx context.Context, key string, labels Labels) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE articles SET category = ?, tags = ?, topics = ? WHERE url_hash = ?"),
		labels.Category, labels.Tags, labels.Topics, key)
	if err != nil {
		return fmt.Errorf("failed to update article labels: %w", err)
	}
	return nil
}

func (r *ArticleRepo) DistinctSources(ctx context.Context) ([]string, error) {
	var sources []string
	err := r.db.SelectContext(ctx, &sources,
		"SELECT DISTINCT source FROM articles WHERE source IS NOT NULL ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	return sources, nil
}

func (r *ArticleRepo) DistinctCountries(ctx context.Context) ([]string, error) {
	var countries []string
	err := r.db.SelectContext(ctx, &countries,
		"SELECT DISTINCT country FROM articles WHERE country IS NOT NULL AND country != '' ORDER BY country")
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

// CountByTopic counts articles per topic name, highest count first. Topics
// with equal counts keep their input order.
func (r *ArticleRepo) CountByTopic(ctx context.Context, topics []string) ([]TopicCount, error) {
	query := r.db.Rebind("SELECT COUNT(*) FROM articles WHERE topics " + r.db.Dialect.Like + " ?")

	counts := make([]TopicCount, 0, len(topics))
	for _, topic := range topics {
		var count int
		if err := r.db.GetContext(ctx, &count, query, "%"+topic+"%"); err != nil {
			return nil, fmt.Errorf("failed to count topic %s: %w", topic, err)
		}
		counts = append(counts, TopicCount{Name: topic, Count: count})
	}

	slices.SortStableFunc(counts, func(a, b TopicCount) int {
		return b.Count - a.Count
	})

	return counts, nil
}

func (r *ArticleRepo) Stats(ctx context.Context) (Stats, error) {
	var row struct {
		Total       int            `db:"total"`
		LGBTQIA     int            `db:"lgbtqia"`
		Women       int            `db:"women"`
		Paywalled   int            `db:"paywalled"`
		LastScraped sql.NullString `db:"last_scraped"`
	}

	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN tags LIKE ? THEN 1 ELSE 0 END), 0) AS lgbtqia,
		       COALESCE(SUM(CASE WHEN tags LIKE ? THEN 1 ELSE 0 END), 0) AS women,
		       COALESCE(SUM(CASE WHEN `+effectivePaywall+` THEN 1 ELSE 0 END), 0) AS paywalled,
		       MAX(scraped_at) AS last_scraped
		FROM articles`), "%lgbtqia+%", "%women%")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get article stats: %w", err)
	}

	stats := Stats{
		Total:     row.Total,
		LGBTQIA:   row.LGBTQIA,
		Women:     row.Women,
		Paywalled: row.Paywalled,
	}
	if row.LastScraped.Valid {
		stats.LastScraped = parseTime(row.LastScraped.String)
	}

	return stats, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}

func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return &t
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-sieve/app/api"
	"github.com/lysyi3m/rss-sieve/app/cache"
	"github.com/lysyi3m/rss-sieve/app/cfg"
	"github.com/lysyi3m/rss-sieve/app/database"
	"github.com/lysyi3m/rss-sieve/app/feed"
	"github.com/lysyi3m/rss-sieve/app/ingest"
	"github.com/lysyi3m/rss-sieve/app/metrics"
	"github.com/lysyi3m/rss-sieve/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	cfg.SetupLogging(os.Stdout, appCfg.Debug)

	if err := run(appCfg); err != nil {
		slog.Error("Fatal error", "command", string(appCfg.Command), "error", err)
		os.Exit(1)
	}
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting RSS Sieve", "version", appCfg.Version, "command", string(appCfg.Command))

	db, err := database.NewConnection(appCfg.DatabaseURL, appCfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	slog.Info("Connected to database", "dialect", db.Dialect.Name)

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations applied", "version", version, "dirty", dirty)

	sources := feed.NewSourceRegistry()
	if appCfg.SourcesFile != "" {
		err = sources.LoadFile(appCfg.SourcesFile)
	} else {
		err = sources.LoadDefaults()
	}
	if err != nil {
		return fmt.Errorf("failed to load feed sources: %w", err)
	}
	slog.Info("Loaded feed sources", "count", sources.Count())

	m := metrics.New()
	repo := database.NewArticleRepository(db)
	httpClient := &http.Client{Timeout: appCfg.FetchTimeout}
	reader := feed.NewReader(httpClient, feed.NewParser(), appCfg.UserAgent)
	maintainer := ingest.NewMaintainer(repo, sources, m)
	ingestor := ingest.NewIngestor(reader, sources, repo, maintainer, m, appCfg.SweepConcurrency)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch appCfg.Command {
	case cfg.CommandSweep:
		_, err := ingestor.Sweep(ctx)
		return err
	case cfg.CommandRecategorize:
		_, err := maintainer.Recategorize(ctx)
		return err
	case cfg.CommandPurge:
		_, err := maintainer.Purge(ctx, time.Now())
		return err
	}

	return serve(ctx, appCfg, repo, ingestor, maintainer, m)
}

func serve(ctx context.Context, appCfg *cfg.Cfg, repo database.ArticleRepository,
	ingestor *ingest.Ingestor, maintainer *ingest.Maintainer, m *metrics.Metrics) error {
	responseCache := newCache(appCfg)
	defer responseCache.Close()

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval.String())
	scheduler := tasks.NewScheduler(ingestor, maintainer, responseCache, m, appCfg.SchedulerInterval, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	baseURL := appCfg.BaseUrl
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", appCfg.Port)
	}

	handler := api.NewHandler(repo, responseCache, scheduler, api.NewRSSGenerator(baseURL, appCfg.Version), appCfg.Version)
	server := api.NewServer(handler, m, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "base_url", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case serveErr = <-serverErrChan:
		slog.Error("Server error", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serveErr
}

// newCache falls back to no caching when Redis is not configured or not
// reachable.
func newCache(appCfg *cfg.Cfg) cache.Cache {
	if appCfg.RedisAddr == "" {
		return cache.Noop{}
	}

	redisCache, err := cache.NewRedis(appCfg.RedisAddr, appCfg.CacheTTL)
	if err != nil {
		slog.Warn("Response cache disabled", "addr", appCfg.RedisAddr, "error", err)
		return cache.Noop{}
	}

	slog.Info("Response cache enabled", "addr", appCfg.RedisAddr, "ttl", appCfg.CacheTTL.String())
	return redisCache
}

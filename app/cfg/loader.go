package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type commandOptions struct{}

type rawCfg struct {
	// Storage configuration
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"Postgres connection string; SQLite is used when empty"`
	SQLitePath  string `long:"sqlite-path" env:"SQLITE_PATH" default:"news.db" description:"SQLite database file"`
	RedisAddr   string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the response cache (optional)"`
	CacheTTL    int    `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Response cache TTL in seconds"`

	// Application configuration
	SourcesFile       string `long:"sources-file" env:"SOURCES_FILE" description:"YAML file with feed sources; the built-in list is used when empty"`
	Port              string `long:"port" env:"PORT" default:"5000" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background task workers"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"86400" description:"Interval between scheduled sweeps in seconds"`
	SweepConcurrency  int    `long:"sweep-concurrency" env:"SWEEP_CONCURRENCY" default:"4" description:"Number of sources fetched in parallel during a sweep"`
	FetchTimeout      int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Feed fetch timeout in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for maintenance endpoints (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RSS Sieve/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Serve        commandOptions `command:"serve" description:"Run the HTTP API and the sweep scheduler (default)"`
	Sweep        commandOptions `command:"sweep" description:"Run one ingestion sweep and exit"`
	Recategorize commandOptions `command:"recategorize" description:"Recompute labels of stored articles and exit"`
	Purge        commandOptions `command:"purge" description:"Delete articles past the retention period and exit"`
}

var globalCfg *Cfg

// Load parses the process arguments and environment. It returns nil without
// an error when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("failed to parse configuration: unknown command %q", rest[0])
	}

	command := CommandServe
	if parser.Active != nil {
		command = Command(parser.Active.Name)
	}

	cfg := &Cfg{
		Command:           command,
		DatabaseURL:       raw.DatabaseURL,
		SQLitePath:        raw.SQLitePath,
		RedisAddr:         raw.RedisAddr,
		CacheTTL:          time.Duration(raw.CacheTTL) * time.Second,
		SourcesFile:       raw.SourcesFile,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: time.Duration(raw.SchedulerInterval) * time.Second,
		SweepConcurrency:  raw.SweepConcurrency,
		FetchTimeout:      time.Duration(raw.FetchTimeout) * time.Second,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be positive, got %d", cfg.WorkerCount)
	}
	if cfg.SweepConcurrency < 1 {
		return fmt.Errorf("sweep concurrency must be positive, got %d", cfg.SweepConcurrency)
	}
	if cfg.SchedulerInterval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", cfg.SchedulerInterval)
	}
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", cfg.FetchTimeout)
	}
	if !cfg.UsesPostgres() && cfg.SQLitePath == "" {
		return fmt.Errorf("either a database URL or an SQLite path is required")
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	slog.Debug("Timezone configured", "timezone", timezone)
	return nil
}

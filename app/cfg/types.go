package cfg

import "time"

type Command string

const (
	CommandServe        Command = "serve"
	CommandSweep        Command = "sweep"
	CommandRecategorize Command = "recategorize"
	CommandPurge        Command = "purge"
)

type Cfg struct {
	Command Command

	// Storage configuration
	DatabaseURL string
	SQLitePath  string
	RedisAddr   string
	CacheTTL    time.Duration

	// Application configuration
	SourcesFile       string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval time.Duration
	SweepConcurrency  int
	FetchTimeout      time.Duration
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// UsesPostgres reports whether a Postgres DSN is configured. SQLite is used
// otherwise.
func (c *Cfg) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

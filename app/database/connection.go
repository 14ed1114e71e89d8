package database

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect captures the few places where the SQLite and Postgres backends
// differ. Everything else is shared SQL.
type Dialect struct {
	Name        string
	DriverName  string
	Placeholder sq.PlaceholderFormat
	Like        string
}

var (
	SQLite   = Dialect{Name: "sqlite", DriverName: "sqlite", Placeholder: sq.Question, Like: "LIKE"}
	Postgres = Dialect{Name: "postgres", DriverName: "postgres", Placeholder: sq.Dollar, Like: "ILIKE"}
)

func init() {
	sqlx.BindDriver(SQLite.DriverName, sqlx.QUESTION)
}

type DB struct {
	*sqlx.DB
	Dialect Dialect
}

// NewConnection opens Postgres when databaseURL is set and the SQLite file at
// sqlitePath otherwise.
func NewConnection(databaseURL, sqlitePath string) (*DB, error) {
	if databaseURL != "" {
		return open(Postgres, databaseURL)
	}
	return open(SQLite, sqliteDSN(sqlitePath))
}

func open(dialect Dialect, dsn string) (*DB, error) {
	db, err := sqlx.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect.Name, err)
	}

	if dialect.Name == SQLite.Name {
		// SQLite allows a single writer; serialize access through one connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect.Name, err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

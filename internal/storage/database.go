// Package storage handles persistence of the outbound query log.
// Sentiment responses themselves are never stored or served from here —
// every /sentiment request makes a live LLM call. The database only tracks
// call metadata (provider, duration, success) for cost monitoring.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Blank import: registers the SQLite driver.
	// In Go, importing a package for its side effects (init function) is done
	// with `_`. The sqlite3 package registers itself as a database/sql driver.
)

// Schema is a plain constant compiled into the binary — no migration files
// need to exist at runtime.
const schema = `
CREATE TABLE IF NOT EXISTS sentiment_queries (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    ticker        TEXT NOT NULL,
    provider      TEXT NOT NULL,
    model         TEXT NOT NULL,
    success       BOOLEAN NOT NULL DEFAULT 0,
    duration_ms   INTEGER,
    error_message TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sentiment_queries_ticker ON sentiment_queries(ticker);
CREATE INDEX IF NOT EXISTS idx_sentiment_queries_created_at ON sentiment_queries(created_at);
`

// NewDatabase creates a new SQLite connection and runs migrations.
// sqlx wraps database/sql with convenience methods like StructScan and NamedExec.
//
// Key Go pattern: the constructor creates the resource AND validates it (Ping).
// If anything fails, we return an error — the caller decides what to do.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// The DSN (Data Source Name) configures SQLite pragmas:
	// - WAL mode: allows concurrent reads while writing
	// - busy_timeout: wait up to 5s instead of failing on lock contention
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	// Run migrations
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

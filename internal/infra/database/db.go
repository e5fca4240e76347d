package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute
)

// schema creates the content tables when they are missing. The unique index on
// daily_hadith_schedule(date) keeps concurrent schedulers from adding a second row.
const schema = `
CREATE TABLE IF NOT EXISTS hadiths (
	id            TEXT PRIMARY KEY,
	arabic_text   TEXT NOT NULL DEFAULT '',
	text          TEXT NOT NULL,
	narrator      TEXT NOT NULL,
	book          TEXT NOT NULL,
	book_number   INTEGER,
	hadith_number INTEGER,
	chapter       TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	difficulty    TEXT NOT NULL DEFAULT '',
	tags          TEXT[] NOT NULL DEFAULT '{}',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_hadiths_active ON hadiths(is_active);

CREATE TABLE IF NOT EXISTS daily_hadith_schedule (
	id          TEXT PRIMARY KEY,
	date        VARCHAR(10) NOT NULL,
	hadith_id   TEXT NOT NULL,
	is_featured BOOLEAN NOT NULL DEFAULT TRUE,
	sent        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS daily_hadith_schedule_date_key ON daily_hadith_schedule(date);
`

// Pool holds the connection limits applied to a new connection.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPool is the pool configuration used by hadithd.
var DefaultPool = Pool{
	MaxOpenConns:    defaultMaxOpenConns,
	MaxIdleConns:    defaultMaxIdleConns,
	ConnMaxLifetime: defaultConnMaxLifetime,
	ConnMaxIdleTime: defaultConnMaxIdleTime,
}

// OpenContentStore connects to the Postgres content store and makes sure the
// hadith and schedule tables exist before any repository uses the handle.
func OpenContentStore(ctx context.Context, dsn string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	pool.apply(db)

	if err := prepare(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (p Pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)
	db.SetConnMaxIdleTime(p.ConnMaxIdleTime)
}

// prepare checks connectivity and bootstraps the schema.
func prepare(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

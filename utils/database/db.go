package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ticket-bot/utils/apperr"
	"ticket-bot/utils/logger"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	ticket_number INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	channel_id TEXT UNIQUE,
	category TEXT NOT NULL,
	opener_id TEXT NOT NULL,
	handler_id TEXT,
	closer_id TEXT,
	created_at TIMESTAMP NOT NULL,
	closed_at TIMESTAMP,
	close_reason TEXT,
	status TEXT NOT NULL DEFAULT 'open'
);
CREATE INDEX IF NOT EXISTS idx_tickets_guild_status ON tickets (guild_id, status);

CREATE TABLE IF NOT EXISTS user_stats (
	user_id TEXT PRIMARY KEY,
	all_time_handled INTEGER NOT NULL DEFAULT 0,
	all_time_closed INTEGER NOT NULL DEFAULT 0,
	weekly_handled INTEGER NOT NULL DEFAULT 0,
	weekly_closed INTEGER NOT NULL DEFAULT 0,
	profile_message TEXT,
	role_assignment_date TIMESTAMP
);

CREATE TABLE IF NOT EXISTS leaderboard_roles (
	user_id TEXT NOT NULL,
	role_name TEXT NOT NULL,
	PRIMARY KEY (user_id, role_name)
);

CREATE TABLE IF NOT EXISTS server_config (
	guild_id TEXT PRIMARY KEY,
	ticket_limit INTEGER NOT NULL DEFAULT 0,
	archive_channel_id TEXT,
	ticket_message_id TEXT,
	ticket_channel_id TEXT,
	leaderboard_channel_id TEXT,
	staff_role_ids TEXT
);

CREATE TABLE IF NOT EXISTS weekly_reset (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	last_reset TIMESTAMP NOT NULL
);`

// Store is the ledger for tickets, user statistics, leaderboard roles and
// guild configuration.
type Store struct {
	db  *sqlx.DB
	log *slog.Logger
}

// Open connects to the sqlite database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("failed to connect to database: %w", err), "open database")
	}
	// One connection keeps transactions serialized and the in-memory
	// database alive for the lifetime of the store.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	return New(db)
}

// New wraps an existing connection and ensures the tables exist.
func New(db *sqlx.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, apperr.Storage(fmt.Errorf("failed to create tables: %w", err), "migrate")
	}
	return &Store{db: db, log: logger.For("database")}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for maintenance commands.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// withTx runs fn inside a transaction. Inside fn only tx may be used: the
// pool has a single connection.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Storage(err, op)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return apperr.Storage(err, op)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Storage(err, op)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// dbTime normalizes timestamps before they are written.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// LedgerCounts summarizes the ledger for status displays.
type LedgerCounts struct {
	OpenTickets    int64 `db:"open_tickets"`
	PendingTickets int64 `db:"pending_tickets"`
	ClosedTickets  int64 `db:"closed_tickets"`
	TrackedUsers   int64 `db:"tracked_users"`
}

func (s *Store) Counts(ctx context.Context) (LedgerCounts, error) {
	var c LedgerCounts
	err := s.db.GetContext(ctx, &c, `SELECT
		(SELECT COUNT(*) FROM tickets WHERE status = 'open') AS open_tickets,
		(SELECT COUNT(*) FROM tickets WHERE status = 'open' AND channel_id IS NULL) AS pending_tickets,
		(SELECT COUNT(*) FROM tickets WHERE status = 'closed') AS closed_tickets,
		(SELECT COUNT(*) FROM user_stats) AS tracked_users`)
	if err != nil {
		return c, apperr.Storage(err, "count ledger rows")
	}
	return c, nil
}

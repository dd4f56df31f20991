// Package journal keeps a local SQLite history of swap outcomes.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
)

const (
	lockTimeout  = 5 * time.Second
	lockRetry    = 50 * time.Millisecond
	defaultLimit = 20
)

// Entry is one journaled outcome.
type Entry struct {
	ID        string
	RunID     string
	Account   string
	Cycle     int
	Index     int
	Pool      string
	Source    string
	Target    string
	Status    domain.Status
	Amount    string
	Digest    string
	Error     string
	Attempts  int
	CreatedAt time.Time
}

// Store is a swap journal backed by SQLite. Writers from concurrent
// processes are serialized through a file lock.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	now  func() time.Time
}

// Open opens or creates the journal at path, locking through lockPath.
func Open(path, lockPath string) (*Store, error) {
	if lockPath == "" {
		lockPath = path + ".lock"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, journalError("create journal directory", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, journalError("create journal lock directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, journalError("open journal sqlite", err)
	}

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS swaps (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			account TEXT NOT NULL,
			cycle INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			pool TEXT NOT NULL,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			status TEXT NOT NULL,
			amount TEXT NOT NULL,
			digest TEXT NOT NULL,
			error TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_swaps_created ON swaps(created_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_swaps_run ON swaps(run_id);",
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			_ = db.Close()
			return nil, journalError("init journal schema", err)
		}
	}
	return &Store{db: db, lock: flock.New(lockPath), now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends o to the journal.
func (s *Store) Record(ctx context.Context, o domain.Outcome) error {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := s.lock.TryLockContext(lockCtx, lockRetry)
	if err != nil {
		return journalError("lock journal", err)
	}
	if !locked {
		return journalError("lock journal", fmt.Errorf("timeout acquiring lock"))
	}
	defer func() { _ = s.lock.Unlock() }()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO swaps (id, run_id, account, cycle, idx, pool, source, target, status, amount, digest, error, attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		uuid.NewString(), o.RunID, o.Account, o.Cycle, o.Index, o.Entry.Pool,
		o.Source, o.Target, string(o.Status), o.Amount, o.Digest, o.ErrorText(), o.Attempts,
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return journalError("insert swap", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, account, cycle, idx, pool, source, target, status, amount, digest, error, attempts, created_at
		FROM swaps ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, journalError("list swaps", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e       Entry
			status  string
			created int64
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Account, &e.Cycle, &e.Index, &e.Pool,
			&e.Source, &e.Target, &status, &e.Amount, &e.Digest, &e.Error, &e.Attempts, &created); err != nil {
			return nil, journalError("scan swap row", err)
		}
		e.Status = domain.Status(status)
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, journalError("iterate swap rows", err)
	}
	return entries, nil
}

func journalError(op string, err error) error {
	return apperror.New(apperror.CodeJournalError, apperror.WithContext(op), apperror.WithCause(err))
}

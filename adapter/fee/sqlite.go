package fee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// lockTimeout bounds how long a writer waits for another process holding the store.
const lockTimeout = 5 * time.Second

// SQLiteStore persists the fee in a sqlite database. Several processes may
// open the same file; writes are serialized with a file lock.
type SQLiteStore struct {
	db   *sql.DB
	lock *flock.Flock
}

// HistoryEntry is one persisted fee change.
type HistoryEntry struct {
	Fee       UsageFee  `json:"fee"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenSQLiteStore opens or creates the store at path. When the database holds
// no fee yet, initial is written.
func OpenSQLiteStore(path, lockPath string, initial UsageFee) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create fee store directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create fee lock directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fee sqlite: %w", err)
	}

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS usage_fee (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			share TEXT NOT NULL,
			recipient TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS usage_fee_history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			share TEXT NOT NULL,
			recipient TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to init fee schema: %w", err)
		}
	}

	_, err = db.Exec(
		"INSERT OR IGNORE INTO usage_fee (id, share, recipient, updated_at) VALUES (1, ?, ?, ?)",
		initial.Share.String(), initial.Recipient, time.Now().UTC().Unix(),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to seed usage fee: %w", err)
	}

	log.Info().Str("path", path).Msg("Fee store opened")
	return &SQLiteStore{db: db, lock: flock.New(lockPath)}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (UsageFee, error) {
	var share, recipient string
	err := s.db.QueryRowContext(ctx, "SELECT share, recipient FROM usage_fee WHERE id = 1").Scan(&share, &recipient)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UsageFee{}, fmt.Errorf("usage fee not initialized")
		}
		return UsageFee{}, fmt.Errorf("failed to read usage fee: %w", err)
	}
	parsed, err := decimal.NewFromString(share)
	if err != nil {
		return UsageFee{}, fmt.Errorf("failed to decode stored fee share: %w", err)
	}
	return UsageFee{Share: parsed, Recipient: recipient}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, fee UsageFee) error {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := s.lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to lock fee store: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to lock fee store: timeout acquiring lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fee update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Unix()
	if _, err := tx.ExecContext(ctx,
		"UPDATE usage_fee SET share = ?, recipient = ?, updated_at = ? WHERE id = 1",
		fee.Share.String(), fee.Recipient, now,
	); err != nil {
		return fmt.Errorf("failed to save usage fee: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO usage_fee_history (share, recipient, updated_at) VALUES (?, ?, ?)",
		fee.Share.String(), fee.Recipient, now,
	); err != nil {
		return fmt.Errorf("failed to record usage fee history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit usage fee: %w", err)
	}

	log.Info().Str("share", fee.Share.String()).Str("recipient", fee.Recipient).Msg("Saved usage fee")
	return nil
}

// History returns the most recent fee changes, newest first.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT share, recipient, updated_at FROM usage_fee_history ORDER BY seq DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage fee history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var share, recipient string
		var updated int64
		if err := rows.Scan(&share, &recipient, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan usage fee history: %w", err)
		}
		parsed, err := decimal.NewFromString(share)
		if err != nil {
			return nil, fmt.Errorf("failed to decode stored fee share: %w", err)
		}
		out = append(out, HistoryEntry{
			Fee:       UsageFee{Share: parsed, Recipient: recipient},
			UpdatedAt: time.Unix(updated, 0).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage fee history: %w", err)
	}
	return out, nil
}

// Package sqlite backs both ledger stores with a single SQLite file: the
// record collection lives in one versioned slot row, attachments in a
// table keyed by expense id.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"librospese/internal/core"

	_ "modernc.org/sqlite"
)

// SlotKey is the fixed schema-version key the record collection is stored
// under. Breaking schema changes bump the key instead of migrating the
// payload in place.
const SlotKey = "expenses_v1"

type Store struct {
	db *sql.DB
}

// Open opens (and on first use creates) the database at dbPath. Opening is
// idempotent: migrations only apply what is missing, so existing data
// survives repeated opens.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements store.RecordStore. A slot that cannot be decoded is
// treated as absent so a damaged file never locks the user out.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM slots WHERE key = ?`, SlotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger slot: %w", err)
	}

	var records []core.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		slog.WarnContext(ctx, "Ledger slot is malformed, starting empty",
			"slot", SlotKey, "error", err)
		return nil, nil
	}
	return records, nil
}

// Save implements store.RecordStore. The whole collection replaces the
// previous slot payload in one statement.
func (s *Store) Save(ctx context.Context, records []core.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO slots (key, payload) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		SlotKey, payload)
	if err != nil {
		return fmt.Errorf("write ledger slot: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved", "slot", SlotKey, "records", len(records))
	return nil
}

// Put implements store.AttachmentStore. An empty payload is stored as-is:
// the row is the explicit "no attachment" tombstone.
func (s *Store) Put(ctx context.Context, a core.Attachment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attachments (expense_id, name, mime, size, payload)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(expense_id) DO UPDATE SET
		   name = excluded.name, mime = excluded.mime,
		   size = excluded.size, payload = excluded.payload`,
		a.ExpenseID, a.Name, a.Type, a.Size, a.Data)
	if err != nil {
		return fmt.Errorf("put attachment %s: %w", a.ExpenseID, err)
	}
	return nil
}

// Get implements store.AttachmentStore; nil means no entry for that id.
func (s *Store) Get(ctx context.Context, expenseID string) (*core.Attachment, error) {
	a := core.Attachment{ExpenseID: expenseID}
	err := s.db.QueryRowContext(ctx,
		`SELECT name, mime, size, payload FROM attachments WHERE expense_id = ?`,
		expenseID).Scan(&a.Name, &a.Type, &a.Size, &a.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attachment %s: %w", expenseID, err)
	}
	return &a, nil
}

// Delete implements store.AttachmentStore. Removing a missing entry is
// not an error.
func (s *Store) Delete(ctx context.Context, expenseID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM attachments WHERE expense_id = ?`, expenseID)
	if err != nil {
		return fmt.Errorf("delete attachment %s: %w", expenseID, err)
	}
	return nil
}

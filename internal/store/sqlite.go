package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sakif/code-cards/internal/apperror"
	"github.com/sakif/code-cards/internal/model"

	// Side-effect import: registers the pure-Go "sqlite" driver with
	// database/sql. No C compiler needed, works everywhere Go works.
	_ "modernc.org/sqlite"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps the whole document as a single row in a SQLite table.
//
// The accessor contract is unchanged from the file backend: Load returns
// the whole parsed document, Save replaces it in full, Update serializes
// the read-modify-write cycle (mutex plus a transaction around the
// load-and-replace). SQLite just makes the replacement durable and
// crash-safe without the temp-file dance.
type SQLiteStore struct {
	conn *sql.DB
	mu   sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// document table exists. Use ":memory:" for tests.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't actually connect — Ping surfaces bad paths and
	// permission problems now rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// A single pooled connection: the store is a serialized single-writer
	// document anyway, and it keeps ":memory:" databases stable in tests
	// (each new pooled connection would otherwise get its own empty DB).
	conn.SetMaxOpenConns(1)

	// WAL mode allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// The CHECK constraint pins the table to a single row: the store is a
	// whole-document store, not a relational schema.
	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS document (
			id   INTEGER PRIMARY KEY CHECK (id = 0),
			data TEXT NOT NULL
		);
	`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: creating document table: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*model.Document, error) {
	var data []byte
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM document WHERE id = 0`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewDocument(), nil
	}
	if err != nil {
		return nil, apperror.ReadFailed(err)
	}

	doc := model.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, apperror.ReadFailed(err)
	}
	return doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return apperror.WriteFailed(err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO document (id, data) VALUES (0, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, string(data))
	if err != nil {
		return apperror.WriteFailed(err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperror.WriteFailed(err)
	}
	defer tx.Rollback()

	doc := model.NewDocument()
	var data []byte
	err = tx.QueryRowContext(ctx, `SELECT data FROM document WHERE id = 0`).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first write: start from the empty document
	case err != nil:
		return apperror.ReadFailed(err)
	default:
		if err := json.Unmarshal(data, doc); err != nil {
			return apperror.ReadFailed(err)
		}
	}

	if err := fn(doc); err != nil {
		return err
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return apperror.WriteFailed(err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO document (id, data) VALUES (0, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, string(out))
	if err != nil {
		return apperror.WriteFailed(err)
	}

	if err := tx.Commit(); err != nil {
		return apperror.WriteFailed(err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Package sqlite implements persistence.SaveStore over a local SQLite
// file, adapted from the teacher's internal/persistence/db.go (sqlx +
// modernc.org/sqlite, WAL journal mode, migrate-on-open) but collapsed
// from the teacher's per-entity relational schema down to a single
// save-blob table, matching the abstract save/load contract (Section 6).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/agentforge/internal/persistence"
)

// Store wraps a SQLite connection implementing persistence.SaveStore.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate sqlite db: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.conn.Close() }

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		size_bytes INTEGER NOT NULL,
		data BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_saves_created_at ON saves(created_at);
	`)
	return err
}

type saveRow struct {
	ID        string `db:"id"`
	CreatedAt int64  `db:"created_at"`
	SizeBytes int    `db:"size_bytes"`
	Data      []byte `db:"data"`
}

func (r saveRow) meta() persistence.SaveMeta {
	return persistence.SaveMeta{
		ID:        persistence.SaveID(r.ID),
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
		SizeBytes: r.SizeBytes,
	}
}

// ListSaves returns every save's metadata, newest first.
func (s *Store) ListSaves(ctx context.Context) ([]persistence.SaveMeta, error) {
	var rows []saveRow
	if err := s.conn.SelectContext(ctx, &rows, `SELECT id, created_at, size_bytes FROM saves ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	metas := make([]persistence.SaveMeta, len(rows))
	for i, r := range rows {
		metas[i] = r.meta()
	}
	return metas, nil
}

// GetSave fetches one save's full payload.
func (s *Store) GetSave(ctx context.Context, id persistence.SaveID) (*persistence.SaveBlob, error) {
	var row saveRow
	err := s.conn.GetContext(ctx, &row, `SELECT id, created_at, size_bytes, data FROM saves WHERE id = ?`, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("get save %s: %w", id, err)
	}
	return &persistence.SaveBlob{Meta: row.meta(), Data: row.Data}, nil
}

// SaveGame stores a new save blob under a freshly generated id.
func (s *Store) SaveGame(ctx context.Context, data []byte) (persistence.SaveMeta, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO saves (id, created_at, size_bytes, data) VALUES (?, ?, ?, ?)`,
		id, now.Unix(), len(data), data)
	if err != nil {
		return persistence.SaveMeta{}, fmt.Errorf("save game: %w", err)
	}
	return persistence.SaveMeta{ID: persistence.SaveID(id), CreatedAt: now, SizeBytes: len(data)}, nil
}

// DeleteSave removes a save by id.
func (s *Store) DeleteSave(ctx context.Context, id persistence.SaveID) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, string(id))
	if err != nil {
		return false, fmt.Errorf("delete save %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete save %s: %w", id, err)
	}
	return n > 0, nil
}

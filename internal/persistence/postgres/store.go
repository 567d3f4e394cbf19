// Package postgres implements persistence.SaveStore against a
// server-grade PostgreSQL database, grounded on DowLucas-promptlands'
// backend/internal/db/postgres.go (pgxpool.New + Ping on construction),
// demonstrating the same persistence.SaveStore interface sqlite and
// objectstore implement, backed by a shared database instead of a local
// file.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talgya/agentforge/internal/persistence"
)

// Store wraps a PostgreSQL connection pool implementing
// persistence.SaveStore.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to connString and ensures the saves table exists.
func Open(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		size_bytes INTEGER NOT NULL,
		data BYTEA NOT NULL
	)`)
	return err
}

// ListSaves returns every save's metadata, newest first.
func (s *Store) ListSaves(ctx context.Context) ([]persistence.SaveMeta, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, created_at, size_bytes FROM saves ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var metas []persistence.SaveMeta
	for rows.Next() {
		var m persistence.SaveMeta
		var id string
		if err := rows.Scan(&id, &m.CreatedAt, &m.SizeBytes); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		m.ID = persistence.SaveID(id)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// GetSave fetches one save's full payload.
func (s *Store) GetSave(ctx context.Context, id persistence.SaveID) (*persistence.SaveBlob, error) {
	var m persistence.SaveMeta
	var data []byte
	var idStr string
	err := s.pool.QueryRow(ctx, `SELECT id, created_at, size_bytes, data FROM saves WHERE id = $1`, string(id)).
		Scan(&idStr, &m.CreatedAt, &m.SizeBytes, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("get save %s: %w", id, err)
	}
	m.ID = persistence.SaveID(idStr)
	return &persistence.SaveBlob{Meta: m, Data: data}, nil
}

// SaveGame stores a new save blob under a freshly generated id.
func (s *Store) SaveGame(ctx context.Context, data []byte) (persistence.SaveMeta, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO saves (id, created_at, size_bytes, data) VALUES ($1, $2, $3, $4)`,
		id, now, len(data), data)
	if err != nil {
		return persistence.SaveMeta{}, fmt.Errorf("save game: %w", err)
	}
	return persistence.SaveMeta{ID: persistence.SaveID(id), CreatedAt: now, SizeBytes: len(data)}, nil
}

// DeleteSave removes a save by id.
func (s *Store) DeleteSave(ctx context.Context, id persistence.SaveID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saves WHERE id = $1`, string(id))
	if err != nil {
		return false, fmt.Errorf("delete save %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

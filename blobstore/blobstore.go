// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package blobstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spaghettETH/blockfighters/metrics"
	"github.com/spaghettETH/blockfighters/models"
)

// Store is content-addressed blob and JSON storage: contestant portraits
// and match-list snapshot pins. Never in the vote-critical path.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a Store backed by the given database.
func New(database *sql.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// ref derives the content address: hex SHA-256 of the raw bytes. Storing
// the same content twice yields the same ref and a single row.
func ref(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Put stores raw bytes and returns their content address. Idempotent:
// re-putting identical content is a no-op returning the same ref.
func (s *Store) Put(ctx context.Context, contentType string, data []byte) (string, error) {
	r := ref(data)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blob (ref, content_type, data, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ref) DO NOTHING
	`, r, contentType, base64.StdEncoding.EncodeToString(data), s.now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return r, nil
}

// Get returns the content type and bytes for a ref, or ErrNotFound.
func (s *Store) Get(ctx context.Context, r string) (string, []byte, error) {
	var contentType, encoded string
	err := s.db.QueryRowContext(ctx, `
		SELECT content_type, data FROM blob WHERE ref = $1
	`, r).Scan(&contentType, &encoded)
	if err == sql.ErrNoRows {
		return "", nil, models.ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("%w: corrupt blob %s: %v", models.ErrStorageUnavailable, r, err)
	}
	return contentType, data, nil
}

// PutJSON marshals v and stores it, returning the content address.
func (s *Store) PutJSON(ctx context.Context, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal for pinning: %w", err)
	}
	return s.Put(ctx, "application/json", data)
}

// GetJSON fetches a ref and unmarshals it into v.
func (s *Store) GetJSON(ctx context.Context, r string, v any) error {
	_, data, err := s.Get(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: corrupt JSON blob %s: %v", models.ErrStorageUnavailable, r, err)
	}
	return nil
}

// PinSnapshot records a snapshot entry pointing at an already-stored ref.
func (s *Store) PinSnapshot(ctx context.Context, r string) (models.Snapshot, error) {
	snap := models.Snapshot{Ref: r, CreatedAt: s.now().UnixMilli()}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshot (ref, created_at) VALUES ($1, $2)
		ON CONFLICT (ref, created_at) DO NOTHING
	`, snap.Ref, snap.CreatedAt)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	metrics.SnapshotsPinned.Inc()
	return snap, nil
}

// Snapshots lists pinned snapshots, newest first.
func (s *Store) Snapshots(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ref, created_at FROM snapshot ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	snaps := []models.Snapshot{}
	for rows.Next() {
		var snap models.Snapshot
		if err := rows.Scan(&snap.Ref, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return snaps, nil
}

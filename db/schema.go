// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Querier is the subset of *sql.DB and *sql.Tx the stores need, so ledger
// and match-store operations can run either standalone or inside a caller's
// transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is dialect-neutral between PostgreSQL and SQLite: timestamps are
// unix milliseconds supplied by the application, booleans are 0/1 integers,
// and blob payloads are base64 text.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either backend. Both drivers surface it only through the error message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// Each string is a single SQL statement (SQLite executes one at a time).
var schema = []string{
	// Enrolled identities. Raw tokens are never stored, only salted hashes.
	`CREATE TABLE IF NOT EXISTS identity (
		id           TEXT PRIMARY KEY,
		token_hash   TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		privileged   INTEGER NOT NULL DEFAULT 0,
		created_at   BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_identity_token_hash ON identity(token_hash)`,

	// One row per match, both contestants inline so a tally increment is a
	// single-row atomic update. The CHECK keeps total_votes equal to the sum
	// on every write.
	`CREATE TABLE IF NOT EXISTS matches (
		id                  BIGINT PRIMARY KEY,
		title               TEXT NOT NULL,
		contestant_a_id     BIGINT NOT NULL,
		contestant_a_name   TEXT NOT NULL,
		contestant_a_media  TEXT NOT NULL DEFAULT '',
		contestant_a_votes  BIGINT NOT NULL DEFAULT 0 CHECK (contestant_a_votes >= 0),
		contestant_b_id     BIGINT NOT NULL,
		contestant_b_name   TEXT NOT NULL,
		contestant_b_media  TEXT NOT NULL DEFAULT '',
		contestant_b_votes  BIGINT NOT NULL DEFAULT 0 CHECK (contestant_b_votes >= 0),
		status              TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'open', 'closed')),
		total_votes         BIGINT NOT NULL DEFAULT 0 CHECK (total_votes = contestant_a_votes + contestant_b_votes),
		created_at          BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status)`,

	// The vote ledger. The composite primary key is the anti-double-vote
	// mechanism: recording a vote is an insert-if-absent against it.
	`CREATE TABLE IF NOT EXISTS vote_record (
		identity_id   TEXT NOT NULL REFERENCES identity(id),
		match_id      BIGINT NOT NULL,
		contestant_id BIGINT NOT NULL,
		voted_at      BIGINT NOT NULL,
		PRIMARY KEY (identity_id, match_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_record_match ON vote_record(match_id)`,

	// Per-identity anti-spam state, across all matches.
	`CREATE TABLE IF NOT EXISTS rate_limit (
		identity_id  TEXT PRIMARY KEY,
		last_vote_at BIGINT NOT NULL
	)`,

	// Content-addressed storage for portraits and JSON pins.
	`CREATE TABLE IF NOT EXISTS blob (
		ref          TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		data         TEXT NOT NULL,
		created_at   BIGINT NOT NULL
	)`,

	// Snapshot pins of the full match list.
	`CREATE TABLE IF NOT EXISTS snapshot (
		ref        TEXT NOT NULL REFERENCES blob(ref),
		created_at BIGINT NOT NULL,
		PRIMARY KEY (ref, created_at)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshot_created ON snapshot(created_at)`,
}

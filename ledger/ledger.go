// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spaghettETH/blockfighters/db"
	"github.com/spaghettETH/blockfighters/models"
)

// Ledger is the authoritative record of which identities already voted on
// which matches. It owns the vote_record and rate_limit tables and nothing
// else writes to them.
type Ledger struct {
	db          *sql.DB
	minInterval time.Duration
	now         func() time.Time
}

// New creates a Ledger backed by the given database. minInterval is the
// anti-spam window between an identity's successful votes across all
// matches.
func New(database *sql.DB, minInterval time.Duration) *Ledger {
	return &Ledger{
		db:          database,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// CanVote reports whether the identity may cast a vote on the match right
// now. Pure read, safe to call repeatedly; the answer is advisory and is
// re-verified atomically by RecordVote at commit time.
//
// Returns nil when the vote may proceed, ErrAlreadyVoted when a vote record
// exists, ErrRateLimited when the identity voted on any match within the
// minimum interval.
func (l *Ledger) CanVote(ctx context.Context, identityID string, matchID int64) error {
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote_record
			WHERE identity_id = $1 AND match_id = $2
		)
	`, identityID, matchID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if exists {
		return models.ErrAlreadyVoted
	}

	var lastVoteAt int64
	err = l.db.QueryRowContext(ctx, `
		SELECT last_vote_at FROM rate_limit WHERE identity_id = $1
	`, identityID).Scan(&lastVoteAt)
	if err == sql.ErrNoRows {
		return nil // never voted before
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	if l.now().UnixMilli()-lastVoteAt < l.minInterval.Milliseconds() {
		return models.ErrRateLimited
	}
	return nil
}

// RecordVote durably records that the identity voted on the match. q is
// usually the coordinator's transaction so the ledger write commits together
// with the tally increment.
//
// The double-vote check is the insert itself: the (identity_id, match_id)
// primary key turns a concurrent duplicate into a unique violation, never a
// lost update. Returns ErrAlreadyVoted on that conflict.
//
// The rate limit is enforced by a guarded upsert on rate_limit: the row only
// changes when the previous vote is at least minInterval old, so two
// concurrent votes on different matches cannot both slip under the window.
// Returns ErrRateLimited when the guard rejects the update; the caller must
// roll back the enclosing transaction to undo the vote record.
func (l *Ledger) RecordVote(ctx context.Context, q db.Querier, identityID string, matchID, contestantID int64) error {
	now := l.now().UnixMilli()

	_, err := q.ExecContext(ctx, `
		INSERT INTO vote_record (identity_id, match_id, contestant_id, voted_at)
		VALUES ($1, $2, $3, $4)
	`, identityID, matchID, contestantID, now)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.ErrAlreadyVoted
		}
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO rate_limit (identity_id, last_vote_at)
		VALUES ($1, $2)
		ON CONFLICT (identity_id) DO UPDATE SET last_vote_at = excluded.last_vote_at
		WHERE rate_limit.last_vote_at <= $3
	`, identityID, now, now-l.minInterval.Milliseconds())
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return models.ErrRateLimited
	}
	return nil
}

// Votes returns the identity's vote records keyed by match ID, so a client
// can restore its own "already voted" state after reconnecting.
func (l *Ledger) Votes(ctx context.Context, identityID string) (map[int64]models.VotedEntry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT match_id, contestant_id, voted_at
		FROM vote_record
		WHERE identity_id = $1
	`, identityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	voted := make(map[int64]models.VotedEntry)
	for rows.Next() {
		var matchID int64
		var entry models.VotedEntry
		if err := rows.Scan(&matchID, &entry.ContestantID, &entry.VotedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
		voted[matchID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return voted, nil
}

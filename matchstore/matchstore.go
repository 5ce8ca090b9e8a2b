// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matchstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spaghettETH/blockfighters/db"
	"github.com/spaghettETH/blockfighters/metrics"
	"github.com/spaghettETH/blockfighters/models"
)

// createAttempts bounds the retry loop for time-derived match IDs.
const createAttempts = 3

// Store owns match state: contestants, tallies, lifecycle status. Each match
// is a single row, so a tally increment is one atomic statement against one
// record. Master-only writes use plain overwrites since privileged callers
// are few and uncontended.
type Store struct {
	db       *sql.DB
	now      func() time.Time
	onChange func()
}

// New creates a Store backed by the given database.
func New(database *sql.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// OnChange registers a callback invoked after every committed mutation the
// store performs itself (create, status change, delete). Tally increments
// run inside the vote coordinator's transaction; the coordinator notifies
// after its own commit.
func (s *Store) OnChange(fn func()) { s.onChange = fn }

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// CreateMatch creates a match in pending status with both tallies at zero.
// Contestants get IDs 1 and 2 within the match. Only privileged identities
// may create matches.
//
// Match IDs derive from the creation timestamp; a collision (two creations
// in the same millisecond) is rejected by the primary key and retried with
// the next candidate.
func (s *Store) CreateMatch(ctx context.Context, caller models.Identity, title string, a, b models.NewContestant) (models.Match, error) {
	if !caller.Privileged {
		return models.Match{}, models.ErrUnauthorized
	}

	now := s.now().UnixMilli()
	m := models.Match{
		Title:       title,
		ContestantA: models.Contestant{ID: 1, Name: a.Name, MediaRef: a.MediaRef},
		ContestantB: models.Contestant{ID: 2, Name: b.Name, MediaRef: b.MediaRef},
		Status:      models.StatusPending,
		CreatedAt:   now,
	}

	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		m.ID = now + int64(attempt)
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO matches (
				id, title,
				contestant_a_id, contestant_a_name, contestant_a_media, contestant_a_votes,
				contestant_b_id, contestant_b_name, contestant_b_media, contestant_b_votes,
				status, total_votes, created_at
			) VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, 0, $9, 0, $10)
		`, m.ID, m.Title,
			m.ContestantA.ID, m.ContestantA.Name, m.ContestantA.MediaRef,
			m.ContestantB.ID, m.ContestantB.Name, m.ContestantB.MediaRef,
			m.Status, m.CreatedAt)
		if err == nil {
			slog.Info("match created", "match_id", m.ID, "title", m.Title)
			metrics.MatchesCreated.Inc()
			s.notify()
			return m, nil
		}
		if !db.IsUniqueViolation(err) {
			break
		}
	}
	return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
}

// Get returns the match with the given ID.
func (s *Store) Get(ctx context.Context, matchID int64) (models.Match, error) {
	return scanMatch(s.db.QueryRowContext(ctx, selectMatch+` WHERE id = $1`, matchID))
}

// List returns all matches, newest first.
func (s *Store) List(ctx context.Context) ([]models.Match, error) {
	rows, err := s.db.QueryContext(ctx, selectMatch+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		m, err := scanMatchRows(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return matches, nil
}

// SetStatus moves a match to the given status. Any status is reachable from
// any other by direct privileged action; there is no forward-only rule. A
// re-opened match keeps whatever tallies it had when closed.
func (s *Store) SetStatus(ctx context.Context, caller models.Identity, matchID int64, status string) (models.Match, error) {
	if !caller.Privileged {
		return models.Match{}, models.ErrUnauthorized
	}
	if !models.ValidStatus(status) {
		return models.Match{}, fmt.Errorf("%w: unknown status %q", models.ErrNotFound, status)
	}

	current, err := s.Get(ctx, matchID)
	if err != nil {
		return models.Match{}, err
	}
	if !models.CanTransition(current.Status, status) {
		return models.Match{}, fmt.Errorf("%w: cannot move %s to %s", models.ErrNotFound, current.Status, status)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE matches SET status = $1 WHERE id = $2
	`, status, matchID)
	if err != nil {
		return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return models.Match{}, models.ErrNotFound
	}

	slog.Info("match status changed", "match_id", matchID, "from", current.Status, "to", status)
	s.notify()

	current.Status = status
	return current, nil
}

// IncrementVote adds n votes to the chosen contestant's counter. q is
// usually the vote coordinator's transaction.
//
// The increment is a single guarded UPDATE: the status gate, the contestant
// check, and the read-modify-write all happen in one statement, so two
// concurrent increments for the same match can never lose an update. The
// schema's CHECK keeps total_votes equal to the sum of both counters.
//
// Fails with ErrMatchNotOpen unless the match is open, ErrNotFound for an
// unknown match or contestant.
func (s *Store) IncrementVote(ctx context.Context, q db.Querier, matchID, contestantID int64, n int64) (models.Match, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE matches SET
			contestant_a_votes = contestant_a_votes + (CASE WHEN contestant_a_id = $1 THEN $2 ELSE 0 END),
			contestant_b_votes = contestant_b_votes + (CASE WHEN contestant_b_id = $1 THEN $2 ELSE 0 END),
			total_votes = total_votes + $2
		WHERE id = $3
		  AND status = $4
		  AND (contestant_a_id = $1 OR contestant_b_id = $1)
	`, contestantID, n, matchID, models.StatusOpen)
	if err != nil {
		return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return models.Match{}, s.explainIncrementFailure(ctx, q, matchID, contestantID)
	}

	updated, err := scanMatch(q.QueryRowContext(ctx, selectMatch+` WHERE id = $1`, matchID))
	if err != nil {
		return models.Match{}, err
	}
	if updated.TotalVotes != updated.ContestantA.Votes+updated.ContestantB.Votes {
		// Unreachable while the schema CHECK holds; belt and suspenders for
		// a backend that silently dropped the constraint.
		return models.Match{}, fmt.Errorf("%w: tally invariant broken for match %d", models.ErrStorageUnavailable, matchID)
	}
	return updated, nil
}

// explainIncrementFailure turns a zero-row increment into the right domain
// error: missing match, closed match, or unknown contestant.
func (s *Store) explainIncrementFailure(ctx context.Context, q db.Querier, matchID, contestantID int64) error {
	m, err := scanMatch(q.QueryRowContext(ctx, selectMatch+` WHERE id = $1`, matchID))
	if err != nil {
		return err
	}
	if _, ok := m.Contestant(contestantID); !ok {
		return fmt.Errorf("%w: contestant %d not in match %d", models.ErrNotFound, contestantID, matchID)
	}
	if m.Status != models.StatusOpen {
		return models.ErrMatchNotOpen
	}
	return fmt.Errorf("%w: match %d rejected increment", models.ErrStorageUnavailable, matchID)
}

// DeleteMatch removes a match and its ledger records. Privileged only; this
// is the administrative reset path, not part of normal voting.
func (s *Store) DeleteMatch(ctx context.Context, caller models.Identity, matchID int64) error {
	if !caller.Privileged {
		return models.ErrUnauthorized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote_record WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	slog.Info("match deleted", "match_id", matchID)
	s.notify()
	return nil
}

const selectMatch = `
	SELECT id, title,
	       contestant_a_id, contestant_a_name, contestant_a_media, contestant_a_votes,
	       contestant_b_id, contestant_b_name, contestant_b_media, contestant_b_votes,
	       status, total_votes, created_at
	FROM matches`

func scanMatch(row *sql.Row) (models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.Title,
		&m.ContestantA.ID, &m.ContestantA.Name, &m.ContestantA.MediaRef, &m.ContestantA.Votes,
		&m.ContestantB.ID, &m.ContestantB.Name, &m.ContestantB.MediaRef, &m.ContestantB.Votes,
		&m.Status, &m.TotalVotes, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Match{}, models.ErrNotFound
	}
	if err != nil {
		return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return m, nil
}

func scanMatchRows(rows *sql.Rows) (models.Match, error) {
	var m models.Match
	err := rows.Scan(
		&m.ID, &m.Title,
		&m.ContestantA.ID, &m.ContestantA.Name, &m.ContestantA.MediaRef, &m.ContestantA.Votes,
		&m.ContestantB.ID, &m.ContestantB.Name, &m.ContestantB.MediaRef, &m.ContestantB.Votes,
		&m.Status, &m.TotalVotes, &m.CreatedAt,
	)
	if err != nil {
		return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return m, nil
}

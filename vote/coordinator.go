// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spaghettETH/blockfighters/ledger"
	"github.com/spaghettETH/blockfighters/matchstore"
	"github.com/spaghettETH/blockfighters/metrics"
	"github.com/spaghettETH/blockfighters/models"
)

// defaultTimeout bounds a single vote attempt. A store that does not answer
// in time fails the attempt; success is never assumed without a positive
// acknowledgment.
const defaultTimeout = 10 * time.Second

// Coordinator orchestrates one vote attempt end to end. It owns no state of
// its own: the ledger and the match store are re-read on every call, never
// cached across attempts.
type Coordinator struct {
	db      *sql.DB
	ledger  *ledger.Ledger
	matches *matchstore.Store
	notify  func()
	timeout time.Duration
}

// New creates a Coordinator. notify, if non-nil, runs after every committed
// vote so subscribers receive the updated tallies.
func New(database *sql.DB, l *ledger.Ledger, m *matchstore.Store, notify func()) *Coordinator {
	return &Coordinator{
		db:      database,
		ledger:  l,
		matches: m,
		notify:  notify,
		timeout: defaultTimeout,
	}
}

// CastVote casts identity's vote for a contestant in a match.
//
// Eligibility is pre-checked for fast rejection, then the decision is made
// in a single transaction, ledger first:
//
//  1. insert the vote record (insert-if-absent, the double-vote gate)
//  2. apply the rate-limit guard
//  3. increment the contestant's tally (guarded by the open-status check)
//  4. commit
//
// The ledger write is the single point of truth. If any later step fails
// the transaction rolls back and no tally moves, so an identity can never
// cause two counted increments for one match - concurrent duplicate calls
// and retries after a lost response both land on ErrAlreadyVoted.
//
// On success the updated match is returned and subscribers are notified.
func (c *Coordinator) CastVote(ctx context.Context, identity models.Identity, matchID, contestantID int64) (models.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.CheckEligibility(ctx, identity, matchID, contestantID); err != nil {
		metrics.VotesRejected.WithLabelValues(metrics.RejectReason(err)).Inc()
		return models.Match{}, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.VotesRejected.WithLabelValues("storage_unavailable").Inc()
		return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if err := c.ledger.RecordVote(ctx, tx, identity.ID, matchID, contestantID); err != nil {
		metrics.VotesRejected.WithLabelValues(metrics.RejectReason(err)).Inc()
		return models.Match{}, err
	}

	updated, err := c.matches.IncrementVote(ctx, tx, matchID, contestantID, 1)
	if err != nil {
		metrics.VotesRejected.WithLabelValues(metrics.RejectReason(err)).Inc()
		return models.Match{}, err
	}

	if err := tx.Commit(); err != nil {
		metrics.VotesRejected.WithLabelValues("storage_unavailable").Inc()
		return models.Match{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	slog.Info("vote recorded",
		"identity_id", identity.ID,
		"match_id", matchID,
		"contestant_id", contestantID,
		"total_votes", updated.TotalVotes,
	)
	metrics.VotesAccepted.Inc()

	if c.notify != nil {
		c.notify()
	}
	return updated, nil
}

// CheckEligibility runs the advisory pre-checks for a vote attempt without
// writing anything: ledger eligibility, match existence, open status, and
// contestant validity. Useful for a client re-checking after a timeout
// before resubmitting. The result may be stale by the time a vote commits;
// CastVote re-verifies everything atomically.
func (c *Coordinator) CheckEligibility(ctx context.Context, identity models.Identity, matchID, contestantID int64) (models.Match, error) {
	if err := c.ledger.CanVote(ctx, identity.ID, matchID); err != nil {
		return models.Match{}, err
	}

	m, err := c.matches.Get(ctx, matchID)
	if err != nil {
		return models.Match{}, err
	}
	if m.Status != models.StatusOpen {
		return models.Match{}, models.ErrMatchNotOpen
	}
	if _, ok := m.Contestant(contestantID); !ok {
		return models.Match{}, fmt.Errorf("%w: contestant %d not in match %d", models.ErrNotFound, contestantID, matchID)
	}
	return m, nil
}

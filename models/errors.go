// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Error taxonomy for the voting core. Handlers map these to HTTP statuses;
// everything else surfaces as a generic 500.
var (
	// ErrUnauthorized: privileged operation attempted by a non-privileged
	// identity. Fatal to the attempt, not retriable.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyVoted: a vote record already exists for this
	// (identity, match) pair. Not retriable.
	ErrAlreadyVoted = errors.New("already voted")

	// ErrRateLimited: vote attempted too soon after the identity's previous
	// successful vote on any match. Retriable after the window elapses.
	ErrRateLimited = errors.New("vote rate limit exceeded")

	// ErrMatchNotOpen: the match is not accepting votes in its current
	// status. Caller should refresh state.
	ErrMatchNotOpen = errors.New("match is not open for voting")

	// ErrNotFound: unknown match, contestant, or ref.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable: the backing store is unreachable. Votes are
	// rejected rather than accepted without a durable record.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

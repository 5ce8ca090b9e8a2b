// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote implements the vote coordinator, orchestrating one vote
attempt deterministically and idempotently from the caller's point of view.

# Ordering

The ledger record commits before (and together with) the tally increment,
inside one transaction. An earlier approach incremented the tally first and
recorded the ledger entry second, accepting a rare over-count when the
ledger write lost a race; ordering ledger-first with a shared transaction
removes that window entirely. The property that holds: no identity can
cause two tally increments to be counted for one match, no matter how many
concurrent or retried calls it makes.

# Retries

A caller that timed out without learning the outcome can simply call
CastVote again: if the original attempt committed, the ledger's
insert-if-absent answers ErrAlreadyVoted and nothing double-counts; if it
did not commit, the retry cleanly succeeds once. CheckEligibility offers
the same answer as a pure read for clients that want to re-check before
resubmitting.

# Failure policy

Every vote attempt is bounded by a timeout and fails closed: an attempt
without a positive acknowledgment is a failed attempt, and a vote the store
cannot durably record is rejected, never simulated as successful.
*/
package vote

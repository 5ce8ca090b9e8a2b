// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the vote ledger: the authoritative answer to "has
this identity already voted on this match".

# Why the insert IS the check

The central correctness property of the whole system is that at most one
vote record exists per (identity, match) pair. A read-then-write check
cannot guarantee that under concurrent attempts from two tabs or a retried
request, so RecordVote does not check at all - it inserts against the
composite primary key and translates the unique violation into
ErrAlreadyVoted. The losing attempt of any race is rejected
deterministically by the database.

# Rate limiting

Independent of the double-vote check, an identity may vote at most once per
MinVoteInterval across all matches. RecordVote enforces it with a guarded
upsert (update only when the previous timestamp is old enough) so the
check-and-set is one atomic statement.

# Usage

	l := ledger.New(db, 5*time.Second)

	if err := l.CanVote(ctx, identityID, matchID); err != nil { ... }

	tx, _ := db.BeginTx(ctx, nil)
	err := l.RecordVote(ctx, tx, identityID, matchID, contestantID)

CanVote is a pure read for UI eligibility; RecordVote inside the vote
coordinator's transaction is what actually decides.
*/
package ledger

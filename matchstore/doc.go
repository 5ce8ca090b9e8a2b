// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package matchstore implements authoritative match state: contestants,
tallies, lifecycle status.

# One row per match

Both contestants live inline in the match row. That makes the contended
operation - a tally increment - a single guarded UPDATE:

	UPDATE matches SET ... votes + n ... WHERE id = ? AND status = 'open'

The status gate and the read-modify-write are one atomic statement, so
concurrent increments for the same match cannot interleave and lose votes.
The schema's CHECK constraint holds total_votes equal to the sum of both
counters on every write.

# Lifecycle

Matches start pending. SetStatus moves a match to any of pending, open, or
closed by direct privileged action; the lifecycle is intentionally not
forward-only, so a master can re-open a closed match (its tallies stay
whatever they were) or park an open one. Master-only writes use plain
overwrites: contention among the handful of privileged identities is
negligible.

# Change notification

OnChange registers a callback fired after create, status change, and delete.
Tally increments happen inside the vote coordinator's transaction, so the
coordinator triggers the notification after its own commit.
*/
package matchstore

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package blobstore provides content-addressed storage for contestant
portraits and JSON snapshot pins.

A blob's ref is the hex SHA-256 of its bytes, so storage is idempotent and
a ref can be handed to clients as a stable, verifiable handle. Snapshot
pins are (ref, created_at) records pointing at a stored JSON document of
the full match list.

None of this sits in the vote-critical path; a pin failure never blocks a
vote.
*/
package blobstore

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - EnrollRequest: display_name, access_key
  - CreateMatchRequest: title, contestant_a, contestant_b
  - SetStatusRequest: status
  - CastVoteRequest: contestant_id

# Response Types

Types for JSON responses:

  - EnrollResponse: identity_id, token, privileged
  - MeResponse: identity info plus the voted-matches map
  - CastVoteResponse: updated match, message
  - CreateSnapshotResponse: ref, created_at
  - UploadBlobResponse: ref
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Match: one contestant pair with tallies and lifecycle status
  - Contestant: one side of a match with its vote counter
  - Identity: an enrolled voter, privileged (master) or not
  - VoteRecord: ledger proof that an identity voted on a match
  - Snapshot: content-addressed pin of the match list

# Constants

Status values:

	StatusPending = "pending"
	StatusOpen    = "open"
	StatusClosed  = "closed"

The lifecycle is not forward-only: CanTransition allows any status to move
to any other by direct master action.

# Errors

Sentinel errors shared across packages: ErrUnauthorized, ErrAlreadyVoted,
ErrRateLimited, ErrMatchNotOpen, ErrNotFound, ErrStorageUnavailable.
*/
package models

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and shared SQL helpers.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL runs unchanged on PostgreSQL (production) and SQLite (tests and
single-binary deployments): timestamps are unix milliseconds written by the
application, and blob payloads are base64 text.

# Tables

  - identity: enrolled identities (salted token hash, privileged flag)
  - matches: one row per match, both contestants and tallies inline
  - vote_record: the vote ledger, PRIMARY KEY (identity_id, match_id)
  - rate_limit: per-identity last successful vote time
  - blob: content-addressed portraits and JSON documents
  - snapshot: pins of the full match list

# Invariants in the schema

	matches.total_votes = contestant_a_votes + contestant_b_votes  (CHECK)
	vote_record: at most one row per (identity, match)             (PK)
	contestant vote counters never negative                        (CHECK)

# Querier

Querier abstracts over *sql.DB and *sql.Tx so the ledger and match store can
participate in the vote coordinator's transaction.
*/
package db

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the BlockFighters API server.

BlockFighters is a live head-to-head voting service: matches pit two
contestants against each other, enrolled identities cast exactly one vote
per match, and tallies stream to clients in real time.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=fights.db MASTER_ACCESS_KEY=... USER_ACCESS_KEY=... TOKEN_SALT=... go run main.go

Or with flags:

	go run main.go -p 8077 -d "postgres://..." -t postgres

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - MASTER_ACCESS_KEY (-master-key): Enrollment key for privileged identities
  - USER_ACCESS_KEY (-user-key): Enrollment key for voters
  - TOKEN_SALT (-token-salt): Secret for identity token hashing

Optional settings:

  - PORT (-p): Server port (default: 8077)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - MIN_VOTE_INTERVAL_MS (-vote-interval): Per-identity delay between votes
  - MIN_SNAPSHOT_INTERVAL_MS (-snapshot-interval): Delay between snapshot pins

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (identities, matches, voting, snapshots)
  - router: Route definitions using Go 1.22+ routing
  - ledger: One-vote-per-identity bookkeeping and rate limiting
  - matchstore: Match lifecycle and tally storage
  - vote: Transactional vote coordination
  - realtime: Server-Sent Events fan-out of live tallies
  - blobstore: Content-addressed portraits and snapshot documents
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Token generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing
  - metrics: Prometheus counters and gauges

See package documentation for each component.
*/
package main

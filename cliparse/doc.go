// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8077)
  - DatabaseURL: Connection string or SQLite path (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - MasterAccessKey: Enrollment key granting master privileges (required)
  - UserAccessKey: Enrollment key for regular voters (required)
  - TokenSalt: Secret for identity token hashing (required)
  - MinVoteInterval: Minimum time between votes per identity (default: 5s)
  - SnapshotInterval: Minimum time between snapshot pins (default: 60s)

# Environment Variables

Flags fall back to environment variables:

	PORT                     → -p
	DATABASE_URL             → -d
	DATABASE_TYPE            → -t
	MASTER_ACCESS_KEY        → -master-key
	USER_ACCESS_KEY          → -user-key
	TOKEN_SALT               → -token-salt
	MIN_VOTE_INTERVAL_MS     → -vote-interval
	MIN_SNAPSHOT_INTERVAL_MS → -snapshot-interval

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing, if the two
access keys are equal, or if intervals are malformed.
*/
package cliparse

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"
	"time"

	"github.com/spaghettETH/blockfighters/blobstore"
	"github.com/spaghettETH/blockfighters/cliparse"
	"github.com/spaghettETH/blockfighters/ledger"
	"github.com/spaghettETH/blockfighters/matchstore"
	"github.com/spaghettETH/blockfighters/testutil"
	"github.com/spaghettETH/blockfighters/vote"
)

// testEnv wires the full handler stack against one in-memory database.
type testEnv struct {
	db         *sql.DB
	cfg        cliparse.Config
	identities *IdentityHandler
	matches    *MatchHandler
	voting     *VotingHandler
	snapshots  *SnapshotHandler
	store      *matchstore.Store
}

// newTestEnv builds a testEnv with the given per-identity vote interval.
// Tests that cast several votes with one identity pass 0.
func newTestEnv(t *testing.T, voteInterval time.Duration) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	cfg := testutil.GetTestConfig()
	cfg.MinVoteInterval = voteInterval

	l := ledger.New(conn, cfg.MinVoteInterval)
	store := matchstore.New(conn)
	coordinator := vote.New(conn, l, store, nil)
	blobs := blobstore.New(conn)

	return &testEnv{
		db:         conn,
		cfg:        cfg,
		identities: NewIdentityHandler(conn, cfg, l),
		matches:    NewMatchHandler(conn, cfg, store),
		voting:     NewVotingHandler(conn, cfg, coordinator),
		snapshots:  NewSnapshotHandler(conn, cfg, store, blobs),
		store:      store,
	}
}

func tokenHeader(token string) map[string]string {
	return map[string]string{"X-Identity-Token": token}
}

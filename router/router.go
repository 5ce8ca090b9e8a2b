// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spaghettETH/blockfighters/blobstore"
	"github.com/spaghettETH/blockfighters/cliparse"
	"github.com/spaghettETH/blockfighters/handlers"
	"github.com/spaghettETH/blockfighters/ledger"
	"github.com/spaghettETH/blockfighters/matchstore"
	"github.com/spaghettETH/blockfighters/middleware"
	"github.com/spaghettETH/blockfighters/realtime"
	"github.com/spaghettETH/blockfighters/vote"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	hub := realtime.NewHub()
	voteLedger := ledger.New(db, cfg.MinVoteInterval)
	matches := matchstore.New(db)
	blobs := blobstore.New(db)

	// Any committed change to a match pushes the fresh list to every stream
	// subscriber.
	publish := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		list, err := matches.List(ctx)
		if err != nil {
			slog.Error("failed to load matches for broadcast", "error", err)
			return
		}
		hub.Broadcast(list)
	}
	matches.OnChange(publish)
	coordinator := vote.New(db, voteLedger, matches, publish)

	// Seed the hub so a subscriber connecting before the first mutation
	// still receives current state, including state written before a
	// restart.
	publish()

	// Initialize handlers
	identityHandler := handlers.NewIdentityHandler(db, cfg, voteLedger)
	matchHandler := handlers.NewMatchHandler(db, cfg, matches)
	votingHandler := handlers.NewVotingHandler(db, cfg, coordinator)
	snapshotHandler := handlers.NewSnapshotHandler(db, cfg, matches, blobs)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Identity enrollment and lookup
	mux.HandleFunc("POST /identities/enroll", middleware.WithLogging(identityHandler.Enroll))
	mux.HandleFunc("GET /identities/me", middleware.WithLogging(identityHandler.GetMe))

	// Match lifecycle (master operations) and public reads
	mux.HandleFunc("POST /matches", middleware.WithLogging(matchHandler.Create))
	mux.HandleFunc("GET /matches", middleware.WithLogging(matchHandler.List))
	mux.HandleFunc("GET /matches/events", hub.ServeHTTP)
	mux.HandleFunc("GET /matches/{id}", middleware.WithLogging(matchHandler.Get))
	mux.HandleFunc("PATCH /matches/{id}/status", middleware.WithLogging(matchHandler.SetStatus))
	mux.HandleFunc("DELETE /matches/{id}", middleware.WithLogging(matchHandler.Delete))

	// Voting
	mux.HandleFunc("POST /matches/{id}/vote", middleware.WithLogging(votingHandler.CastVote))

	// Snapshots and blobs
	mux.HandleFunc("POST /snapshots", middleware.WithLogging(snapshotHandler.Create))
	mux.HandleFunc("GET /snapshots", middleware.WithLogging(snapshotHandler.List))
	mux.HandleFunc("GET /snapshots/{ref}", middleware.WithLogging(snapshotHandler.Get))
	mux.HandleFunc("POST /blobs", middleware.WithLogging(snapshotHandler.UploadBlob))
	mux.HandleFunc("GET /blobs/{ref}", middleware.WithLogging(snapshotHandler.GetBlob))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("blockfighters API v1"))
	})

	return mux
}

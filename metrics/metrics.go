// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics defines the Prometheus instruments for the voting core.
// Everything is registered on the default registry and served at /metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spaghettETH/blockfighters/models"
)

// VotesAccepted counts votes that committed: ledger record and tally
// increment both durable.
var VotesAccepted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "blockfighters_votes_accepted_total",
	Help: "Total votes accepted and durably recorded.",
})

// VotesRejected counts rejected vote attempts by reason.
var VotesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "blockfighters_votes_rejected_total",
	Help: "Total vote attempts rejected, by reason.",
}, []string{"reason"})

// MatchesCreated counts matches created by masters.
var MatchesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "blockfighters_matches_created_total",
	Help: "Total matches created.",
})

// StreamClients tracks currently connected SSE subscribers.
var StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "blockfighters_stream_clients",
	Help: "Currently connected match-stream subscribers.",
})

// StreamBroadcasts counts match-list broadcasts to subscribers.
var StreamBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "blockfighters_stream_broadcasts_total",
	Help: "Total match-list broadcasts fanned out to subscribers.",
})

// SnapshotsPinned counts content-addressed snapshot pins.
var SnapshotsPinned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "blockfighters_snapshots_pinned_total",
	Help: "Total match-list snapshots pinned to blob storage.",
})

// RejectReason maps a domain error to its metrics label. Kept here so the
// label set stays closed.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, models.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, models.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, models.ErrMatchNotOpen):
		return "match_not_open"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "other"
	}
}

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/spaghettETH/blockfighters/auth"
	"github.com/spaghettETH/blockfighters/cliparse"
	"github.com/spaghettETH/blockfighters/middleware"
	"github.com/spaghettETH/blockfighters/models"
	"github.com/spaghettETH/blockfighters/vote"
)

type VotingHandler struct {
	db          *sql.DB
	cfg         cliparse.Config
	coordinator *vote.Coordinator
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, c *vote.Coordinator) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, coordinator: c}
}

// CastVote handles POST /matches/{id}/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(h.db, h.cfg, r)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Identity-Token header required")
			return
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	matchID, err := matchIDFromPath(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ContestantID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "contestant_id is required")
		return
	}

	match, err := h.coordinator.CastVote(r.Context(), ident, matchID, req.ContestantID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Match:   match,
		Message: "Vote recorded",
	})
}

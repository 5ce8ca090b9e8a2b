// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/spaghettETH/blockfighters/auth"
	"github.com/spaghettETH/blockfighters/cliparse"
	"github.com/spaghettETH/blockfighters/matchstore"
	"github.com/spaghettETH/blockfighters/middleware"
	"github.com/spaghettETH/blockfighters/models"
)

type MatchHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	matches *matchstore.Store
}

func NewMatchHandler(db *sql.DB, cfg cliparse.Config, matches *matchstore.Store) *MatchHandler {
	return &MatchHandler{db: db, cfg: cfg, matches: matches}
}

func matchIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// Create handles POST /matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(h.db, h.cfg, r)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Identity-Token header required")
			return
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var req models.CreateMatchRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.ContestantA.Name == "" || req.ContestantB.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "both contestants need a name")
		return
	}

	match, err := h.matches.CreateMatch(r.Context(), ident, req.Title, req.ContestantA, req.ContestantB)
	if err != nil {
		slog.Error("failed to create match", "error", err, "identity_id", ident.ID)
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, match)
}

// List handles GET /matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matches.List(r.Context())
	if err != nil {
		slog.Error("failed to list matches", "error", err)
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, matches)
}

// Get handles GET /matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFromPath(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	match, err := h.matches.Get(r.Context(), matchID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, match)
}

// SetStatus handles PATCH /matches/{id}/status
func (h *MatchHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

	var req models.SetStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !models.ValidStatus(req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be pending, open, or closed")
		return
	}

	match, err := h.matches.SetStatus(r.Context(), ident, matchID, req.Status)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("match status changed", "match_id", matchID, "status", req.Status, "identity_id", ident.ID)
	middleware.JSONResponse(w, http.StatusOK, match)
}

// Delete handles DELETE /matches/{id}
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.matches.DeleteMatch(r.Context(), ident, matchID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("match deleted", "match_id", matchID, "identity_id", ident.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/spaghettETH/blockfighters/auth"
	"github.com/spaghettETH/blockfighters/cliparse"
	"github.com/spaghettETH/blockfighters/ledger"
	"github.com/spaghettETH/blockfighters/middleware"
	"github.com/spaghettETH/blockfighters/models"
)

type IdentityHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	ledger *ledger.Ledger
}

func NewIdentityHandler(db *sql.DB, cfg cliparse.Config, l *ledger.Ledger) *IdentityHandler {
	return &IdentityHandler{db: db, cfg: cfg, ledger: l}
}

// resolveIdentity authenticates a request by its X-Identity-Token header.
// Tokens are matched by salted hash; the raw token never touches storage.
// A missing or unknown token yields auth.ErrInvalidToken, distinct from
// models.ErrUnauthorized (authenticated but not privileged).
func resolveIdentity(db *sql.DB, cfg cliparse.Config, r *http.Request) (models.Identity, error) {
	token := r.Header.Get("X-Identity-Token")
	if token == "" {
		return models.Identity{}, auth.ErrInvalidToken
	}

	var ident models.Identity
	var privileged int
	err := db.QueryRowContext(r.Context(), `
		SELECT id, display_name, privileged, created_at
		FROM identity WHERE token_hash = $1
	`, auth.HashToken(token, cfg.TokenSalt)).Scan(
		&ident.ID, &ident.DisplayName, &privileged, &ident.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Identity{}, auth.ErrInvalidToken
	}
	if err != nil {
		return models.Identity{}, err
	}
	ident.Privileged = privileged != 0
	return ident, nil
}

// Enroll handles POST /identities/enroll
// The access key decides the role: the master key enrolls a privileged
// identity, the user key a regular voter, anything else is rejected.
func (h *IdentityHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req models.EnrollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.DisplayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if len(req.DisplayName) < 2 || len(req.DisplayName) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name must be 2-50 characters")
		return
	}

	privileged, err := auth.CheckAccessKey(req.AccessKey, h.cfg.MasterAccessKey, h.cfg.UserAccessKey)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid access key")
		return
	}

	token, err := auth.GenerateToken()
	if err != nil {
		slog.Error("failed to generate identity token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to enroll")
		return
	}

	identityID := uuid.NewString()
	priv := 0
	if privileged {
		priv = 1
	}
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO identity (id, token_hash, display_name, privileged, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, identityID, auth.HashToken(token, h.cfg.TokenSalt), req.DisplayName, priv, time.Now().UnixMilli())
	if err != nil {
		slog.Error("failed to insert identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to enroll")
		return
	}

	slog.Info("identity enrolled",
		"identity_id", identityID,
		"privileged", privileged,
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.TokenSalt),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.EnrollResponse{
		IdentityID: identityID,
		Token:      token,
		Privileged: privileged,
	})
}

// GetMe handles GET /identities/me
// Returns the caller's identity plus its voted-matches map so a client can
// restore "already voted" state after reconnecting.
func (h *IdentityHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(h.db, h.cfg, r)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Identity-Token header required")
			return
		}
		slog.Error("failed to resolve identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voted, err := h.ledger.Votes(r.Context(), ident.ID)
	if err != nil {
		slog.Error("failed to load vote history", "error", err, "identity_id", ident.ID)
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		IdentityID:  ident.ID,
		DisplayName: ident.DisplayName,
		Privileged:  ident.Privileged,
		Voted:       voted,
	})
}

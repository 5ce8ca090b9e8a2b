// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spaghettETH/blockfighters/auth"
	"github.com/spaghettETH/blockfighters/blobstore"
	"github.com/spaghettETH/blockfighters/cliparse"
	"github.com/spaghettETH/blockfighters/matchstore"
	"github.com/spaghettETH/blockfighters/middleware"
	"github.com/spaghettETH/blockfighters/models"
)

// maxBlobSize caps portrait uploads at 2 MiB.
const maxBlobSize = 2 << 20

type SnapshotHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	matches *matchstore.Store
	blobs   *blobstore.Store

	mu      sync.Mutex
	lastPin time.Time
}

func NewSnapshotHandler(db *sql.DB, cfg cliparse.Config, matches *matchstore.Store, blobs *blobstore.Store) *SnapshotHandler {
	return &SnapshotHandler{db: db, cfg: cfg, matches: matches, blobs: blobs}
}

// requirePrivileged resolves the caller and rejects non-master identities.
func (h *SnapshotHandler) requirePrivileged(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	ident, err := resolveIdentity(h.db, h.cfg, r)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Identity-Token header required")
			return models.Identity{}, false
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Identity{}, false
	}
	if !ident.Privileged {
		middleware.WriteError(w, models.ErrUnauthorized)
		return models.Identity{}, false
	}
	return ident, true
}

// Create handles POST /snapshots
// Pins the current match list as a content-addressed document. Pins are
// throttled to one per SnapshotInterval so a misbehaving client cannot
// fill the snapshot table.
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.requirePrivileged(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if time.Since(h.lastPin) < h.cfg.SnapshotInterval {
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Snapshot interval not elapsed")
		return
	}

	matches, err := h.matches.List(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	ref, err := h.blobs.PutJSON(r.Context(), matches)
	if err != nil {
		slog.Error("failed to store snapshot document", "error", err)
		middleware.WriteError(w, err)
		return
	}

	snap, err := h.blobs.PinSnapshot(r.Context(), ref)
	if err != nil {
		slog.Error("failed to pin snapshot", "error", err, "ref", ref)
		middleware.WriteError(w, err)
		return
	}
	h.lastPin = time.Now()

	slog.Info("snapshot pinned", "ref", ref, "matches", len(matches), "identity_id", ident.ID)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateSnapshotResponse{
		Ref:       snap.Ref,
		CreatedAt: snap.CreatedAt,
		Matches:   len(matches),
	})
}

// List handles GET /snapshots
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.blobs.Snapshots(r.Context())
	if err != nil {
		slog.Error("failed to list snapshots", "error", err)
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, snaps)
}

// Get handles GET /snapshots/{ref}
// Returns the pinned match list exactly as it was at pin time.
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	var matches []models.Match
	if err := h.blobs.GetJSON(r.Context(), r.PathValue("ref"), &matches); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, matches)
}

// UploadBlob handles POST /blobs
// Accepts a raw body (contestant portraits and similar assets) and returns
// its content-addressed ref for use as a media_ref.
func (h *SnapshotHandler) UploadBlob(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrivileged(w, r); !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBlobSize+1))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if len(data) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Empty body")
		return
	}
	if len(data) > maxBlobSize {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Blob exceeds 2 MiB limit")
		return
	}

	ref, err := h.blobs.Put(r.Context(), contentType, data)
	if err != nil {
		slog.Error("failed to store blob", "error", err)
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.UploadBlobResponse{
		Ref:  ref,
		Size: len(data),
	})
}

// GetBlob handles GET /blobs/{ref}
func (h *SnapshotHandler) GetBlob(w http.ResponseWriter, r *http.Request) {
	contentType, data, err := h.blobs.Get(r.Context(), r.PathValue("ref"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

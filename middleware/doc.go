// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for the voting widget:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PATCH, DELETE, OPTIONS with headers
Content-Type, X-Identity-Token.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Domain Error Mapping

WriteError translates the models error taxonomy into HTTP statuses:

	ErrUnauthorized       → 403
	ErrAlreadyVoted       → 409
	ErrRateLimited        → 429
	ErrMatchNotOpen       → 409
	ErrNotFound           → 404
	ErrStorageUnavailable → 503
	anything else         → 500

# Client IP

GetClientIP checks X-Forwarded-For, X-Real-IP, then RemoteAddr.
*/
package middleware

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spaghettETH/blockfighters/models"
	"github.com/spaghettETH/blockfighters/testutil"
)

// contextWithQuickCancel bounds a streaming request so ServeHTTP returns.
func contextWithQuickCancel(req *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(req.Context(), 100*time.Millisecond)
}

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "blockfighters API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// Routes must be matched; 400/401/404 from the handler are all fine here,
	// 405 means the route is missing.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/metrics"},

		{"POST", "/identities/enroll"},
		{"GET", "/identities/me"},

		{"POST", "/matches"},
		{"GET", "/matches"},
		{"GET", "/matches/123"},
		{"PATCH", "/matches/123/status"},
		{"DELETE", "/matches/123"},
		{"POST", "/matches/123/vote"},

		{"POST", "/snapshots"},
		{"GET", "/snapshots"},
		{"GET", "/snapshots/abc123"},
		{"POST", "/blobs"},
		{"GET", "/blobs/abc123"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},        // only GET is defined
		{"PUT", "/matches/123"},    // GET and DELETE are defined
		{"DELETE", "/identities/me"}, // only GET is defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	m := testutil.CreateTestMatch(t, db, models.StatusOpen)

	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/matches/"+strconv.FormatInt(m.ID, 10), nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for an existing match, got %d. Body: %s", w.Code, w.Body.String())
	}

	var got models.Match
	testutil.AssertJSON(t, w, &got)
	if got.ID != m.ID {
		t.Errorf("Expected match %d, got %d", m.ID, got.ID)
	}
}

// A subscriber connecting before any in-process mutation must still get
// the current match list, including matches written before the router
// (and hub) existed.
func TestStreamDeliversStateAfterRestart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()

	// Written before the router is built, as after a process restart.
	m := testutil.CreateTestMatch(t, db, models.StatusOpen)

	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/matches/events", nil)
	ctx, cancel := contextWithQuickCancel(req)
	defer cancel()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req.WithContext(ctx))

	body := w.Body.String()
	if !strings.Contains(body, "event: matches") {
		t.Fatalf("Expected a matches event on connect, got: %q", body)
	}
	if !strings.Contains(body, strconv.FormatInt(m.ID, 10)) {
		t.Errorf("Expected the pre-existing match %d in the stream, got: %q", m.ID, body)
	}
}

// The events route is a literal segment under /matches and must not be
// swallowed by the {id} wildcard.
func TestEventsRouteNotShadowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/matches/events", nil)
	ctx, cancel := contextWithQuickCancel(req)
	defer cancel()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req.WithContext(ctx))

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}
}

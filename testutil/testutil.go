// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/spaghettETH/blockfighters/auth"
	"github.com/spaghettETH/blockfighters/cliparse"
	"github.com/spaghettETH/blockfighters/db"
	"github.com/spaghettETH/blockfighters/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// Each call gets its own named memory database so tests stay isolated.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name, err := auth.GenerateID(8)
	if err != nil {
		t.Fatalf("Failed to generate test database name: %v", err)
	}

	conn, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps the shared-cache memory database alive and
	// serializes writers the way the production Postgres backend would via
	// row locks.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             8077,
		DatabaseURL:      "file:test?mode=memory",
		DatabaseType:     "sqlite",
		MasterAccessKey:  "test-master-key",
		UserAccessKey:    "test-user-key",
		TokenSalt:        "test-token-salt",
		MinVoteInterval:  5 * time.Second,
		SnapshotInterval: 60 * time.Second,
	}
}

var matchSeq atomic.Int64

// CreateTestMatch inserts a match with contestants 1 and 2 and zero tallies.
// status should be "pending", "open", or "closed".
func CreateTestMatch(t *testing.T, conn *sql.DB, status string) models.Match {
	t.Helper()

	m := models.Match{
		ID:          time.Now().UnixMilli()*100 + matchSeq.Add(1),
		Title:       "Test Match",
		ContestantA: models.Contestant{ID: 1, Name: "Fighter A"},
		ContestantB: models.Contestant{ID: 2, Name: "Fighter B"},
		Status:      status,
		CreatedAt:   time.Now().UnixMilli(),
	}

	_, err := conn.Exec(`
		INSERT INTO matches (
			id, title,
			contestant_a_id, contestant_a_name, contestant_a_media, contestant_a_votes,
			contestant_b_id, contestant_b_name, contestant_b_media, contestant_b_votes,
			status, total_votes, created_at
		) VALUES ($1, $2, $3, $4, '', 0, $5, $6, '', 0, $7, 0, $8)
	`, m.ID, m.Title, m.ContestantA.ID, m.ContestantA.Name,
		m.ContestantB.ID, m.ContestantB.Name, m.Status, m.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test match: %v", err)
	}

	return m
}

// CreateTestIdentity enrolls an identity directly in the database and
// returns it along with its raw token.
func CreateTestIdentity(t *testing.T, conn *sql.DB, cfg cliparse.Config, displayName string, privileged bool) (models.Identity, string) {
	t.Helper()

	token, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	ident := models.Identity{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Privileged:  privileged,
		CreatedAt:   time.Now().UnixMilli(),
	}

	priv := 0
	if privileged {
		priv = 1
	}
	_, err = conn.Exec(`
		INSERT INTO identity (id, token_hash, display_name, privileged, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ident.ID, auth.HashToken(token, cfg.TokenSalt), ident.DisplayName, priv, ident.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test identity: %v", err)
	}

	return ident, token
}

// MatchTallies reads the raw counters for a match straight from the store.
func MatchTallies(t *testing.T, conn *sql.DB, matchID int64) (a, b, total int64) {
	t.Helper()

	err := conn.QueryRow(`
		SELECT contestant_a_votes, contestant_b_votes, total_votes
		FROM matches WHERE id = $1
	`, matchID).Scan(&a, &b, &total)
	if err != nil {
		t.Fatalf("Failed to read match tallies: %v", err)
	}
	return a, b, total
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

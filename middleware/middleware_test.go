// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spaghettETH/blockfighters/models"
)

func TestWithLogging(t *testing.T) {
	// Create a simple handler that returns OK
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "simple struct",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "hello"},
			expected:   `{"message":"hello"}`,
		},
		{
			name:       "enroll response",
			statusCode: http.StatusCreated,
			data:       models.EnrollResponse{IdentityID: "abc123", Token: "tok456", Privileged: true},
			expected:   `{"identity_id":"abc123","token":"tok456","privileged":true}`,
		},
		{
			name:       "error response",
			statusCode: http.StatusBadRequest,
			data:       models.ErrorResponse{Error: "Bad Request", Message: "missing field"},
			expected:   `{"error":"Bad Request","message":"missing field"}`,
		},
		{
			name:       "array data",
			statusCode: http.StatusOK,
			data:       []string{"a", "b", "c"},
			expected:   `["a","b","c"]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", ct)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tc.expected {
				t.Errorf("Expected body %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"unauthorized", models.ErrUnauthorized, http.StatusForbidden},
		{"already voted", models.ErrAlreadyVoted, http.StatusConflict},
		{"rate limited", models.ErrRateLimited, http.StatusTooManyRequests},
		{"match not open", models.ErrMatchNotOpen, http.StatusConflict},
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"storage unavailable", models.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unknown error", bytes.ErrTooLarge, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("Expected non-empty error field")
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	body := `{"contestant_id": 2}`
	req := httptest.NewRequest("POST", "/matches/1/vote", strings.NewReader(body))

	var parsed models.CastVoteRequest
	if err := ParseJSONBody(req, &parsed); err != nil {
		t.Fatalf("ParseJSONBody() error = %v", err)
	}
	if parsed.ContestantID != 2 {
		t.Errorf("Expected contestant_id 2, got %d", parsed.ContestantID)
	}

	// Malformed JSON
	req = httptest.NewRequest("POST", "/matches/1/vote", strings.NewReader("{not json"))
	if err := ParseJSONBody(req, &parsed); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Preflight request short-circuits
	req := httptest.NewRequest("OPTIONS", "/matches", nil)
	req.Header.Set("Origin", "https://blockfighters.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://blockfighters.example" {
		t.Errorf("Expected origin echoed back, got %s", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Identity-Token") {
		t.Error("Expected X-Identity-Token in allowed headers")
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name     string
		remote   string
		headers  map[string]string
		expected string
	}{
		{"remote addr", "10.0.0.1:54321", nil, "10.0.0.1"},
		{"x-forwarded-for single", "10.0.0.1:54321", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"x-forwarded-for chain", "10.0.0.1:54321", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:54321", map[string]string{"X-Real-IP": "198.51.100.3"}, "198.51.100.3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tc.expected {
				t.Errorf("GetClientIP() = %s, want %s", got, tc.expected)
			}
		})
	}
}

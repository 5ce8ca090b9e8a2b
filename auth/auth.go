// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAccessKey = errors.New("invalid access key")
	ErrInvalidToken     = errors.New("missing or unknown identity token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateToken creates a random secure identity token.
// The raw token is handed to the client exactly once at enrollment; the
// server persists only its salted hash.
func GenerateToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate identity token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// HashToken returns the salted HMAC-SHA256 of an identity token, hex encoded.
// Deterministic, so lookups hash the presented token and compare against the
// stored hash without ever storing the token itself.
func HashToken(token, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// CheckAccessKey classifies an enrollment access key. Returns privileged
// true for the master key, false for the user key, and ErrInvalidAccessKey
// otherwise. Comparison is constant-time.
func CheckAccessKey(key, masterKey, userKey string) (privileged bool, err error) {
	if hmac.Equal([]byte(key), []byte(masterKey)) {
		return true, nil
	}
	if hmac.Equal([]byte(key), []byte(userKey)) {
		return false, nil
	}
	return false, ErrInvalidAccessKey
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}

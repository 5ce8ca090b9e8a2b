// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}
	if strings.ContainsAny(token, "=+/") {
		t.Errorf("GenerateToken() not URL-safe: %s", token)
	}

	token2, _ := GenerateToken()
	if token == token2 {
		t.Error("GenerateToken() produced duplicate tokens (extremely unlikely)")
	}
}

func TestHashToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		salt  string
	}{
		{"standard", "some-token", "secret-salt"},
		{"empty token", "", "salt"},
		{"empty salt", "token456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1 := HashToken(tt.token, tt.salt)
			h2 := HashToken(tt.token, tt.salt)
			if h1 != h2 {
				t.Error("HashToken() is not deterministic")
			}
			if len(h1) != 64 { // sha256 hex
				t.Errorf("HashToken() length = %d, want 64", len(h1))
			}
		})
	}

	// Different salts must produce different hashes
	if HashToken("tok", "salt-a") == HashToken("tok", "salt-b") {
		t.Error("HashToken() ignored the salt")
	}
}

func TestCheckAccessKey(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		wantPrivileged bool
		wantErr        bool
	}{
		{"master key", "master-secret", true, false},
		{"user key", "user-secret", false, false},
		{"unknown key", "wrong", false, true},
		{"empty key", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			privileged, err := CheckAccessKey(tt.key, "master-secret", "user-secret")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckAccessKey() error = %v", err)
			}
			if privileged != tt.wantPrivileged {
				t.Errorf("CheckAccessKey() privileged = %v, want %v", privileged, tt.wantPrivileged)
			}
		})
	}
}

func TestHashIP(t *testing.T) {
	h1 := HashIP("192.168.1.1", "salt")
	h2 := HashIP("192.168.1.1", "salt")
	if h1 != h2 {
		t.Error("HashIP() is not deterministic")
	}
	if len(h1) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(h1))
	}
	if HashIP("192.168.1.1", "salt") == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() collided for different IPs")
	}
}

// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Identity Tokens

Identity tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateToken()

Tokens are URL-safe base64 encoded. The raw token is returned to the client
once at enrollment; the server stores only its salted hash:

	hash := auth.HashToken(token, salt)

HashToken is deterministic HMAC-SHA256, so verifying a presented token is a
hash-and-lookup with no secrets at rest.

# Access Keys

Enrollment is gated by two shared access keys, one granting master
privileges and one for regular voters:

	privileged, err := auth.CheckAccessKey(key, cfg.MasterAccessKey, cfg.UserAccessKey)

Comparison uses hmac.Equal to avoid timing leaks. An unknown key returns
ErrInvalidAccessKey.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving abuse tracing:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth

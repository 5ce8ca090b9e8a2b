// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Match status constants
const (
	StatusPending = "pending"
	StatusOpen    = "open"
	StatusClosed  = "closed"
)

// ValidStatus reports whether s is one of the three match states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusOpen || s == StatusClosed
}

// CanTransition reports whether a privileged caller may move a match from
// one status to another. Every state is directly reachable from every other
// state; the lifecycle is deliberately not forward-only so a master can
// correct mistakes (re-open a closed match, park an open one).
func CanTransition(from, to string) bool {
	return ValidStatus(from) && ValidStatus(to)
}

// Request types

type EnrollRequest struct {
	DisplayName string `json:"display_name"`
	AccessKey   string `json:"access_key"`
}

type NewContestant struct {
	Name     string `json:"name"`
	MediaRef string `json:"media_ref,omitempty"`
}

type CreateMatchRequest struct {
	Title       string        `json:"title"`
	ContestantA NewContestant `json:"contestant_a"`
	ContestantB NewContestant `json:"contestant_b"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type CastVoteRequest struct {
	ContestantID int64 `json:"contestant_id"`
}

// Response types

type EnrollResponse struct {
	IdentityID string `json:"identity_id"`
	Token      string `json:"token"`
	Privileged bool   `json:"privileged"`
}

type MeResponse struct {
	IdentityID  string               `json:"identity_id"`
	DisplayName string               `json:"display_name"`
	Privileged  bool                 `json:"privileged"`
	Voted       map[int64]VotedEntry `json:"voted"`
}

// VotedEntry is one entry of MeResponse.Voted, keyed by match ID. It lets a
// reconnecting client render its own "already voted" state without retrying.
type VotedEntry struct {
	ContestantID int64 `json:"contestant_id"`
	VotedAt      int64 `json:"voted_at"`
}

type CastVoteResponse struct {
	Match   Match  `json:"match"`
	Message string `json:"message"`
}

type CreateSnapshotResponse struct {
	Ref       string `json:"ref"`
	CreatedAt int64  `json:"created_at"`
	Matches   int    `json:"matches"`
}

type UploadBlobResponse struct {
	Ref  string `json:"ref"`
	Size int    `json:"size"`
}

// Domain types

// Contestant is one of the two choices in a match. Votes is monotonically
// non-decreasing while the match is open and frozen while it is closed.
type Contestant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	MediaRef string `json:"media_ref,omitempty"`
	Votes    int64  `json:"votes"`
}

// Match is one contestant-pair voting round. TotalVotes always equals
// ContestantA.Votes + ContestantB.Votes; the schema enforces the sum on
// every write.
type Match struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	ContestantA Contestant `json:"contestant_a"`
	ContestantB Contestant `json:"contestant_b"`
	Status      string     `json:"status"`
	TotalVotes  int64      `json:"total_votes"`
	CreatedAt   int64      `json:"created_at"`
}

// Contestant returns the contestant with the given ID, or false if the ID
// belongs to neither side.
func (m Match) Contestant(id int64) (Contestant, bool) {
	switch id {
	case m.ContestantA.ID:
		return m.ContestantA, true
	case m.ContestantB.ID:
		return m.ContestantB, true
	}
	return Contestant{}, false
}

// Identity is an authenticated voter. The raw token is returned once at
// enrollment and never stored; only its salted hash is persisted.
type Identity struct {
	ID          string `json:"identity_id"`
	DisplayName string `json:"display_name"`
	Privileged  bool   `json:"privileged"`
	CreatedAt   int64  `json:"created_at"`
}

// VoteRecord is the ledger entry proving an identity voted on a match.
// At most one exists per (identity, match) pair.
type VoteRecord struct {
	IdentityID   string `json:"identity_id"`
	MatchID      int64  `json:"match_id"`
	ContestantID int64  `json:"contestant_id"`
	VotedAt      int64  `json:"voted_at"`
}

// Snapshot is a content-addressed pin of the full match list.
type Snapshot struct {
	Ref       string `json:"ref"`
	CreatedAt int64  `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

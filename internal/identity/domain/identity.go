// Package domain holds the durable account identity record and its
// normalization rules.
package domain

import (
	"strings"
	"time"
)

// Identity is the durable account record. Email and Username are unique
// case-insensitively; Username keeps its display case. An Identity with an
// empty PasswordHash is externally federated and cannot complete a local
// login.
type Identity struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // empty for externally federated accounts
	ExternalID   string // link to an external identity provider; empty for local accounts
	FirstName    string
	LastName     string
	DisplayName  string
	CreatedAt    time.Time
	LastLoginAt  *time.Time // nil until the first successful login
}

// NormalizeEmail lowercases and trims an email for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FoldUsername folds a username for case-insensitive comparison. The stored
// username keeps the caller's casing; only lookups and uniqueness checks fold.
func FoldUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

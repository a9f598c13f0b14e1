// Package repository persists account identities. Lookups by email and
// username are case-insensitive; uniqueness is enforced by the storage layer
// so a concurrent duplicate slips past the service's pre-checks and still
// fails here.
package repository

import (
	"context"
	"errors"
	"time"

	"identity-plane/internal/identity/domain"
)

// Duplicate-key errors surfaced when the storage uniqueness constraint fires.
var (
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Repository is the persistence contract the identity service depends on.
// Get* methods return (nil, nil) when no record matches; errors are reserved
// for storage failures.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
	Create(ctx context.Context, ident *domain.Identity) error
	// UpdateLastLogin stamps the last-activity instant and returns the
	// updated record, or (nil, nil) if the identity no longer exists.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) (*domain.Identity, error)
	// UpdateProfile replaces the mutable profile fields and returns the
	// updated record, or (nil, nil) if the identity no longer exists.
	UpdateProfile(ctx context.Context, id, firstName, lastName, displayName string) (*domain.Identity, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
}

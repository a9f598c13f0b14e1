// Package repository persists audit events.
package repository

import (
	"context"

	"identity-plane/internal/audit/domain"
)

// Repository stores audit events. Writes are best-effort from the caller's
// point of view; only the logger sees the error.
type Repository interface {
	Create(ctx context.Context, e *domain.Event) error
	ListByIdentity(ctx context.Context, identityID string, limit int) ([]*domain.Event, error)
}

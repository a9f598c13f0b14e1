package repository

import (
	"context"
	"database/sql"

	"identity-plane/internal/audit/domain"
)

// PostgresRepository implements Repository on Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the event.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, identity_id, action, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, nullString(e.IdentityID), e.Action, e.IP, e.Metadata, e.CreatedAt)
	return err
}

// ListByIdentity returns the most recent events for an identity, newest
// first, capped at limit.
func (r *PostgresRepository) ListByIdentity(ctx context.Context, identityID string, limit int) ([]*domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, identity_id, action, ip, metadata, created_at
		 FROM audit_events WHERE identity_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		identityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var (
			e          domain.Event
			identityID sql.NullString
		)
		if err := rows.Scan(&e.ID, &identityID, &e.Action, &e.IP, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.IdentityID = identityID.String
		out = append(out, &e)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

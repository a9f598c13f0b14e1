package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"identity-plane/internal/identity/domain"
)

const identityColumns = `id, email, username, password_hash, external_id,
	first_name, last_name, display_name, created_at, last_login_at`

// PostgresRepository implements Repository on Postgres. Case-insensitive
// matching and uniqueness both go through LOWER() expression indexes, so the
// database is the final arbiter of the one-identity-per-email invariant.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an identity repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the identity for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

// GetByEmail returns the identity whose email matches case-insensitively, or
// nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE LOWER(email) = LOWER($1)`,
		domain.NormalizeEmail(email))
	return scanIdentity(row)
}

// GetByUsername returns the identity whose username matches
// case-insensitively, or nil if not found.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE LOWER(username) = LOWER($1)`,
		domain.FoldUsername(username))
	return scanIdentity(row)
}

// Create inserts the identity. A uniqueness-constraint violation is mapped to
// ErrDuplicateEmail or ErrDuplicateUsername so the service can report the
// same conflict it would have found in its pre-checks.
func (r *PostgresRepository) Create(ctx context.Context, ident *domain.Identity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identities
			(id, email, username, password_hash, external_id,
			 first_name, last_name, display_name, created_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		ident.ID,
		ident.Email,
		ident.Username,
		nullString(ident.PasswordHash),
		nullString(ident.ExternalID),
		ident.FirstName,
		ident.LastName,
		ident.DisplayName,
		ident.CreatedAt,
		nullTime(ident.LastLoginAt),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "identities_email_lower_key":
			return ErrDuplicateEmail
		case "identities_username_lower_key":
			return ErrDuplicateUsername
		}
	}
	return err
}

// UpdateLastLogin stamps last_login_at and returns the updated record, or
// (nil, nil) if the identity was deleted in the meantime.
func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE identities SET last_login_at = $2 WHERE id = $1
		 RETURNING `+identityColumns, id, at)
	return scanIdentity(row)
}

// UpdateProfile replaces the mutable profile fields and returns the updated
// record, or (nil, nil) if the identity was deleted in the meantime.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, firstName, lastName, displayName string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE identities
		 SET first_name = $2, last_name = $3, display_name = $4
		 WHERE id = $1
		 RETURNING `+identityColumns,
		id, firstName, lastName, displayName)
	return scanIdentity(row)
}

// IsEmailTaken reports whether any identity already has this email,
// case-insensitively.
func (r *PostgresRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM identities WHERE LOWER(email) = LOWER($1))`,
		domain.NormalizeEmail(email)).Scan(&taken)
	return taken, err
}

// IsUsernameTaken reports whether any identity already has this username,
// case-insensitively.
func (r *PostgresRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM identities WHERE LOWER(username) = LOWER($1))`,
		domain.FoldUsername(username)).Scan(&taken)
	return taken, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*domain.Identity, error) {
	var (
		ident        domain.Identity
		passwordHash sql.NullString
		externalID   sql.NullString
		lastLoginAt  sql.NullTime
	)
	err := row.Scan(
		&ident.ID,
		&ident.Email,
		&ident.Username,
		&passwordHash,
		&externalID,
		&ident.FirstName,
		&ident.LastName,
		&ident.DisplayName,
		&ident.CreatedAt,
		&lastLoginAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	ident.PasswordHash = passwordHash.String
	ident.ExternalID = externalID.String
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		ident.LastLoginAt = &t
	}
	return &ident, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Package service orchestrates registration, login, username validation, and
// profile access for account identities.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"identity-plane/internal/identity/domain"
	"identity-plane/internal/identity/repository"
	"identity-plane/internal/identity/suggest"
)

// suggestionCount is how many alternatives a failed username validation
// offers.
const suggestionCount = 3

// PasswordHasher is the credential-hashing capability the service depends
// on. The bcrypt implementation lives in internal/security.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
	Compare(hash string, password []byte) error
}

// TokenIssuer mints a signed bearer token for a verified identity.
type TokenIssuer interface {
	Issue(subject, email, username string) (token string, expiresAt time.Time, err error)
}

// EventRecorder receives best-effort audit events for auth activity. May be
// nil-backed; the service never fails an operation over it.
type EventRecorder interface {
	LogEvent(ctx context.Context, identityID, action, metadata string)
}

// AuthResult is a successful registration or login: the persisted identity
// plus a bearer token for it.
type AuthResult struct {
	Identity  *domain.Identity
	Token     string
	ExpiresAt time.Time
}

// RegisterParams is the already-shape-validated input to Register.
type RegisterParams struct {
	Email       string
	Password    string
	Username    string
	FirstName   string
	LastName    string
	DisplayName string
}

// UsernameCheck is the outcome of ValidateUsername. Suggestions are present
// only when the candidate is unusable.
type UsernameCheck struct {
	Available   bool
	Reason      string // "invalid_format", "reserved", or "taken"
	Suggestions []string
}

// Service coordinates the hasher, token issuer, suggestion engine, and
// repository. It is stateless between calls and safe for concurrent use.
type Service struct {
	repo        repository.Repository
	hasher      PasswordHasher
	tokens      TokenIssuer
	suggestions *suggest.Engine
	events      EventRecorder
}

// New returns a Service with the given collaborators. events may be nil.
func New(repo repository.Repository, hasher PasswordHasher, tokens TokenIssuer, suggestions *suggest.Engine, events EventRecorder) *Service {
	return &Service{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		suggestions: suggestions,
		events:      events,
	}
}

// Register creates a local identity and returns it with a fresh token.
// Checks run in order and short-circuit: reserved username, email conflict,
// username conflict. A caller therefore learns about the first blocking
// problem only. The pre-checks are best effort; a concurrent duplicate is
// caught by the storage uniqueness constraint and reported as the same
// conflict.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*AuthResult, error) {
	email := domain.NormalizeEmail(p.Email)
	username := strings.TrimSpace(p.Username)

	if IsReservedUsername(username) {
		return nil, ErrReservedUsername
	}
	taken, err := s.repo.IsEmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	taken, err = s.repo.IsUsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash([]byte(p.Password))
	if err != nil {
		return nil, err
	}

	ident := &domain.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    normalizeFreeText(p.FirstName),
		LastName:     normalizeFreeText(p.LastName),
		DisplayName:  normalizeFreeText(p.DisplayName),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, ident); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(ident.ID, ident.Email, ident.Username)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, ident.ID, "identity.register", "")
	return &AuthResult{Identity: ident, Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies an email/password pair and returns the identity with a
// fresh token. Unknown email, federated-only accounts, and wrong passwords
// all fail with the same ErrInvalidCredentials. On success the last-activity
// timestamp is stamped first and the token is issued from the updated record.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ident, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if ident == nil {
		s.logEvent(ctx, "", "auth.login_failure", "")
		return nil, ErrInvalidCredentials
	}
	if ident.PasswordHash == "" {
		// Federated-only account: same signal as a wrong password.
		s.logEvent(ctx, ident.ID, "auth.login_failure", "")
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(ident.PasswordHash, []byte(password)); err != nil {
		s.logEvent(ctx, ident.ID, "auth.login_failure", "")
		return nil, ErrInvalidCredentials
	}

	updated, err := s.repo.UpdateLastLogin(ctx, ident.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(updated.ID, updated.Email, updated.Username)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, updated.ID, "auth.login", "")
	return &AuthResult{Identity: updated, Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateUsername runs the format, reserved-word, and uniqueness checks in
// that order. On any failure it reports unavailable and computes suggestions
// from the raw candidate, malformed or not.
func (s *Service) ValidateUsername(ctx context.Context, candidate string) *UsernameCheck {
	reason := ""
	switch {
	case !ValidUsernameFormat(candidate):
		reason = "invalid_format"
	case IsReservedUsername(candidate):
		reason = "reserved"
	case !s.suggestions.IsAvailable(ctx, strings.TrimSpace(candidate)):
		reason = "taken"
	}
	if reason == "" {
		return &UsernameCheck{Available: true}
	}
	return &UsernameCheck{
		Available:   false,
		Reason:      reason,
		Suggestions: s.suggestions.Suggest(ctx, strings.TrimSpace(candidate), suggestionCount),
	}
}

// GetProfile returns the identity for id, or ErrNotFound if it no longer
// exists.
func (s *Service) GetProfile(ctx context.Context, id string) (*domain.Identity, error) {
	ident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, ErrNotFound
	}
	return ident, nil
}

// UpdateProfile normalizes and persists the mutable profile fields,
// returning the updated record or ErrNotFound.
func (s *Service) UpdateProfile(ctx context.Context, id, firstName, lastName, displayName string) (*domain.Identity, error) {
	updated, err := s.repo.UpdateProfile(ctx, id,
		normalizeFreeText(firstName),
		normalizeFreeText(lastName),
		normalizeFreeText(displayName),
	)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *Service) logEvent(ctx context.Context, identityID, action, metadata string) {
	if s.events == nil {
		return
	}
	s.events.LogEvent(ctx, identityID, action, metadata)
}

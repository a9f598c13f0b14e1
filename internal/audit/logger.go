// Package audit records auth activity (register, login, login failure) as a
// best-effort trail alongside the identity store.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"identity-plane/internal/audit/domain"
	auditrepo "identity-plane/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context. The HTTP
// middleware stashes it there; nil extractors record "unknown".
type IPExtractor func(context.Context) string

// Logger persists audit events. LogEvent is best-effort: failures are logged
// and never affect the calling operation.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns a Logger that writes to repo and resolves client IPs via
// ipExtractor. ipExtractor may be nil.
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogEvent writes one audit event. Errors are logged, not returned.
func (l *Logger) LogEvent(ctx context.Context, identityID, action, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		if v := l.ipExtractor(ctx); v != "" {
			ip = v
		}
	}
	e := &domain.Event{
		ID:         uuid.New().String(),
		IdentityID: identityID,
		Action:     action,
		IP:         ip,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, e); err != nil {
		log.Printf("audit: failed to record %s: %v", action, err)
	}
}

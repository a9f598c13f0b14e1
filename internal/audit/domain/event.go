package domain

import "time"

// Event is one persisted auth-activity record (registration, login,
// login failure). IdentityID may be empty when the actor could not be
// resolved, e.g. a login attempt against an unknown email.
type Event struct {
	ID         string
	IdentityID string
	Action     string
	IP         string
	Metadata   string
	CreatedAt  time.Time
}

package middleware

import "context"

type contextKey struct{ name string }

var (
	identityIDKey = contextKey{"identity_id"}
	clientIPKey   = contextKey{"client_ip"}
)

// WithIdentityID returns a context carrying the authenticated identity id.
func WithIdentityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, identityIDKey, id)
}

// GetIdentityID returns the authenticated identity id and true if set.
func GetIdentityID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(identityIDKey).(string)
	return v, ok
}

// WithClientIP returns a context carrying the client IP for audit logging.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client IP from ctx, or "" if not set.
func GetClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

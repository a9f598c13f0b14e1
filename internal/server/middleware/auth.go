// Package middleware carries the Gin middleware for bearer-token auth and
// request-scoped context plumbing.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"identity-plane/internal/security"
)

const bearerPrefix = "bearer "

// Auth returns middleware that validates the Bearer access token and stores
// the identity id in the request context. All token failure modes produce the
// same 401 body.
func Auth(tokens *security.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		claims, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Request = c.Request.WithContext(WithIdentityID(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

// ClientIP returns middleware that stashes Gin's resolved client IP in the
// request context so code below the transport (audit) can read it.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithClientIP(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

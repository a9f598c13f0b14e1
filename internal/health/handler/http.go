// Package handler serves liveness/readiness for load balancers and CI.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger checks connectivity to a backing store. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler answers health checks.
type Handler struct {
	db Pinger
}

// New returns a health Handler. db may be nil when the service runs without
// a database (e.g. in smoke tests); the check then reports ok.
func New(db Pinger) *Handler {
	return &Handler{db: db}
}

// Check handles GET /healthz. Reports 503 when the database is unreachable.
func (h *Handler) Check(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

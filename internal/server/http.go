// Package server assembles the Gin engine: middleware, public auth routes,
// and the token-protected user surface.
package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	healthhandler "identity-plane/internal/health/handler"
	identityhandler "identity-plane/internal/identity/handler"
	"identity-plane/internal/security"
	"identity-plane/internal/server/middleware"
)

// Options are the collaborators the router needs.
type Options struct {
	ServiceName string
	Identity    *identityhandler.Handler
	Health      *healthhandler.Handler
	Tokens      *security.TokenProvider
}

// New builds the HTTP router. Register, login, and username validation are
// public; everything under /v1/users requires a Bearer token.
func New(opts Options) *gin.Engine {
	identityhandler.RegisterValidators()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		otelgin.Middleware(opts.ServiceName),
		middleware.ClientIP(),
	)

	r.GET("/healthz", opts.Health.Check)

	v1 := r.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", opts.Identity.Register)
	auth.POST("/login", opts.Identity.Login)
	auth.POST("/username/validate", opts.Identity.ValidateUsername)

	users := v1.Group("/users")
	users.Use(middleware.Auth(opts.Tokens))
	users.GET("/me", opts.Identity.GetMe)
	users.PATCH("/me", opts.Identity.UpdateMe)

	return r
}

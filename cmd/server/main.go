package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"identity-plane/internal/audit"
	auditrepo "identity-plane/internal/audit/repository"
	"identity-plane/internal/config"
	"identity-plane/internal/db"
	healthhandler "identity-plane/internal/health/handler"
	identityhandler "identity-plane/internal/identity/handler"
	identityrepo "identity-plane/internal/identity/repository"
	"identity-plane/internal/identity/service"
	"identity-plane/internal/identity/suggest"
	"identity-plane/internal/security"
	"identity-plane/internal/server"
	"identity-plane/internal/server/middleware"
	otelsetup "identity-plane/internal/telemetry/otel"
)

// fanoutRecorder delivers each auth event to every recorder.
type fanoutRecorder []service.EventRecorder

func (f fanoutRecorder) LogEvent(ctx context.Context, identityID, action, metadata string) {
	for _, r := range f {
		r.LogEvent(ctx, identityID, action, metadata)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	tokens, err := newTokenProvider(cfg)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	repo := identityrepo.NewPostgresRepository(pool)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(pool), middleware.GetClientIP)
	emitter := otelsetup.NewEventEmitter(providers.LoggerProvider)

	svc := service.New(
		repo,
		security.NewHasher(cfg.BcryptCost),
		tokens,
		suggest.NewEngine(repo),
		fanoutRecorder{auditLogger, emitter},
	)

	router := server.New(server.Options{
		ServiceName: cfg.ServiceName,
		Identity:    identityhandler.New(svc),
		Health:      healthhandler.New(pool),
		Tokens:      tokens,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}

// newTokenProvider builds the token provider from configured PEM keys, or
// falls back to the embedded development key pair outside production.
// config.Load already refused a production deployment without keys.
func newTokenProvider(cfg *config.Config) (*security.TokenProvider, error) {
	if cfg.JWTPrivateKey != "" && cfg.JWTPublicKey != "" {
		signer, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
		if err != nil {
			return nil, err
		}
		pub, err := security.ParsePublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, err
		}
		return security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL()), nil
	}
	log.Println("JWT keys not configured; using development signing key")
	return security.NewDevTokenProvider(cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL())
}

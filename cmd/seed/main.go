// seed creates an initial account from SEED_* env vars; safe to re-run.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"identity-plane/internal/audit"
	auditrepo "identity-plane/internal/audit/repository"
	"identity-plane/internal/config"
	"identity-plane/internal/db"
	identityrepo "identity-plane/internal/identity/repository"
	"identity-plane/internal/identity/service"
	"identity-plane/internal/identity/suggest"
	"identity-plane/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	email := envOr("SEED_EMAIL", "admin@example.com")
	username := envOr("SEED_USERNAME", "founder")
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		log.Fatal("SEED_PASSWORD is not set")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	tokens, err := security.NewDevTokenProvider(cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	repo := identityrepo.NewPostgresRepository(pool)
	svc := service.New(
		repo,
		security.NewHasher(cfg.BcryptCost),
		tokens,
		suggest.NewEngine(repo),
		audit.NewLogger(auditrepo.NewPostgresRepository(pool), nil),
	)

	ctx := context.Background()
	result, err := svc.Register(ctx, service.RegisterParams{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrUsernameTaken) {
			log.Printf("seed account %s already exists, nothing to do", email)
			return
		}
		log.Fatalf("seed: %v", err)
	}
	log.Printf("created seed account %s (id %s)", result.Identity.Email, result.Identity.ID)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

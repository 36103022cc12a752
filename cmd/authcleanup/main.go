// Command authcleanup sweeps expired verification codes and refresh
// tokens. It is meant to be run by an external scheduler (hourly for
// codes is plenty; daily works too) and is idempotent.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"clipvault/internal/config"
	"clipvault/internal/database"
	"clipvault/internal/mailer"
	"clipvault/internal/modules/auth"
	jwtsvc "clipvault/internal/pkg/jwt"
	"clipvault/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAuthRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	codeIssuer := auth.NewCodeIssuer(
		repository.NewVerificationCodeRepository(db),
		mailer.NewConsoleMailer(),
		cfg.VerificationCodePepper,
		cfg.CodeTTL,
		cfg.CodeRateWindow,
		cfg.CodeRateMax,
	)
	sessionIssuer := auth.NewSessionIssuer(
		repository.NewRefreshTokenRepository(db),
		jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL),
		cfg.RefreshTokenPepper,
		cfg.RefreshTTL,
	)

	ctx := context.Background()

	codes, err := codeIssuer.CleanupExpired(ctx)
	if err != nil {
		log.Fatalf("cleanup verification codes failed: %v", err)
	}

	tokens, err := sessionIssuer.CleanupExpired(ctx)
	if err != nil {
		log.Fatalf("cleanup refresh tokens failed: %v", err)
	}

	log.Printf("auth cleanup completed: verification_codes=%d refresh_tokens=%d", codes, tokens)
}

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"clipvault/internal/config"
	"clipvault/internal/database"
	"clipvault/internal/domain"
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
		log.Fatal(err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.VerificationCode{},
		&domain.RefreshToken{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)
	} else {
		log.Println("SMTP_HOST is empty, verification codes go to the log")
		mail = mailer.NewConsoleMailer()
	}

	codeIssuer := auth.NewCodeIssuer(codeRepo, mail, cfg.VerificationCodePepper, cfg.CodeTTL, cfg.CodeRateWindow, cfg.CodeRateMax)
	sessionIssuer := auth.NewSessionIssuer(tokenRepo, j, cfg.RefreshTokenPepper, cfg.RefreshTTL)
	authService := auth.NewService(codeIssuer, sessionIssuer, userRepo, mail)
	authHandler := auth.NewHandler(authService)

	r := gin.Default()

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(auth.Middleware(authService))
		{
			authHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

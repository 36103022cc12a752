package auth

import (
	"context"
	"time"

	"clipvault/internal/domain"
	"clipvault/internal/pkg/jwt"
)

// UserRepositoryInterface — only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// VerificationCodeRepositoryInterface — storage for login codes.
type VerificationCodeRepositoryInterface interface {
	Create(ctx context.Context, c *domain.VerificationCode) error
	FindActive(ctx context.Context, email, codeHash string) (*domain.VerificationCode, error)
	CountSince(ctx context.Context, email string, since time.Time) (int64, error)
	MarkUsed(ctx context.Context, id int64) error
	MarkAllUsed(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RefreshTokenRepositoryInterface — storage for refresh tokens.
type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, id int64) error
	RevokeAllForUser(ctx context.Context, userID int64) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Mailer mirrors internal/mailer.Mailer; declared here so the module
// depends on behavior, not the SMTP implementation.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendWelcomeEmail(ctx context.Context, email string) error
}

type accessTokenSigner interface {
	GenerateToken(userID int64) (string, error)
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

// CodeIssuerInterface and SessionIssuerInterface let Service tests swap
// the collaborators out.
type CodeIssuerInterface interface {
	SendCode(ctx context.Context, email string) error
	VerifyAndConsume(ctx context.Context, email, code string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

type SessionIssuerInterface interface {
	Issue(ctx context.Context, userID int64) (*Tokens, error)
	VerifyAccessToken(tokenStr string) (int64, error)
	RotateAccessToken(ctx context.Context, refreshRaw string) (string, error)
	Revoke(ctx context.Context, refreshRaw string) error
	RevokeAllForUser(ctx context.Context, userID int64) (int64, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"clipvault/internal/domain"

	"gorm.io/gorm"
)

// Tokens is the transient session pair handed to the client. Only the
// refresh half is persisted (as a hash); access tokens live in the JWT
// signature alone.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionIssuer mints signed access tokens and persists refresh tokens.
type SessionIssuer struct {
	tokens     RefreshTokenRepositoryInterface
	jwt        accessTokenSigner
	pepper     string
	refreshTTL time.Duration
}

func NewSessionIssuer(
	tokens RefreshTokenRepositoryInterface,
	jwt accessTokenSigner,
	pepper string,
	refreshTTL time.Duration,
) *SessionIssuer {
	return &SessionIssuer{
		tokens:     tokens,
		jwt:        jwt,
		pepper:     pepper,
		refreshTTL: refreshTTL,
	}
}

// Issue mints an access/refresh pair for the user. This is the only path
// that creates refresh token rows.
func (s *SessionIssuer) Issue(ctx context.Context, userID int64) (*Tokens, error) {
	accessToken, err := s.jwt.GenerateToken(userID)
	if err != nil {
		return nil, err
	}

	refreshRaw, refreshHash, err := generateOpaqueRefreshToken(s.pepper)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, &domain.RefreshToken{
		UserID:    userID,
		TokenHash: refreshHash,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &Tokens{AccessToken: accessToken, RefreshToken: refreshRaw}, nil
}

// VerifyAccessToken returns the embedded user id, or ErrInvalidToken for
// both malformed and expired tokens — callers get no distinction.
func (s *SessionIssuer) VerifyAccessToken(tokenStr string) (int64, error) {
	claims, err := s.jwt.ValidateToken(tokenStr)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// RotateAccessToken exchanges a refresh token for a new access token. The
// refresh token itself is NOT rotated — it stays valid and reusable until
// its own expiry or explicit revocation.
func (s *SessionIssuer) RotateAccessToken(ctx context.Context, refreshRaw string) (string, error) {
	row, err := s.tokens.GetByHash(ctx, hashWithPepper(refreshRaw, s.pepper))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}
	if !row.Usable(time.Now()) {
		return "", ErrInvalidRefreshToken
	}

	return s.jwt.GenerateToken(row.UserID)
}

// Revoke invalidates a single refresh token. Unknown tokens are a no-op,
// not an error — logout must always succeed.
func (s *SessionIssuer) Revoke(ctx context.Context, refreshRaw string) error {
	row, err := s.tokens.GetByHash(ctx, hashWithPepper(refreshRaw, s.pepper))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.tokens.Revoke(ctx, row.ID)
}

// RevokeAllForUser invalidates every live token the user holds.
func (s *SessionIssuer) RevokeAllForUser(ctx context.Context, userID int64) (int64, error) {
	return s.tokens.RevokeAllForUser(ctx, userID)
}

// CleanupExpired deletes tokens past their expiry regardless of revoked
// status. Idempotent.
func (s *SessionIssuer) CleanupExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, time.Now())
}

func generateOpaqueRefreshToken(pepper string) (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	hash = hashWithPepper(raw, pepper)
	return raw, hash, nil
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clipvault/internal/domain"
	jwtsvc "clipvault/internal/pkg/jwt"
	"clipvault/internal/repository"
)

func newTestSessionIssuer(db *gorm.DB, refreshTTL time.Duration) *SessionIssuer {
	return NewSessionIssuer(
		repository.NewRefreshTokenRepository(db),
		jwtsvc.New("test-jwt-secret", 15*time.Minute),
		"test-refresh-pepper",
		refreshTTL,
	)
}

func TestSessionIssuer_IssueAndVerify(t *testing.T) {
	db := newTestDB(t)
	issuer := newTestSessionIssuer(db, 7*24*time.Hour)

	tokens, err := issuer.Issue(context.Background(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	userID, err := issuer.VerifyAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	// Only the hash is at rest.
	var row domain.RefreshToken
	require.NoError(t, db.First(&row).Error)
	assert.NotEqual(t, tokens.RefreshToken, row.TokenHash)
	assert.Len(t, row.TokenHash, 64)
}

func TestSessionIssuer_VerifyAccessToken_Invalid(t *testing.T) {
	db := newTestDB(t)
	issuer := newTestSessionIssuer(db, 7*24*time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.VerifyAccessToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}

	// A token signed with a different secret is rejected too.
	other := jwtsvc.New("other-secret", 15*time.Minute)
	foreign, err := other.GenerateToken(42)
	require.NoError(t, err)
	_, err = issuer.VerifyAccessToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionIssuer_RotateAccessToken_Reusable(t *testing.T) {
	db := newTestDB(t)
	issuer := newTestSessionIssuer(db, 7*24*time.Hour)

	tokens, err := issuer.Issue(context.Background(), 42)
	require.NoError(t, err)

	first, err := issuer.RotateAccessToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.NotEqual(t, tokens.AccessToken, first)

	// The refresh token is not rotated: the same one keeps working.
	second, err := issuer.RotateAccessToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	userID, err := issuer.VerifyAccessToken(second)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	var count int64
	require.NoError(t, db.Model(&domain.RefreshToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "refresh never creates rows")
}

func TestSessionIssuer_RotateAccessToken_Rejected(t *testing.T) {
	db := newTestDB(t)
	issuer := newTestSessionIssuer(db, 7*24*time.Hour)

	_, err := issuer.RotateAccessToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Revoked.
	tokens, err := issuer.Issue(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, issuer.Revoke(context.Background(), tokens.RefreshToken))
	_, err = issuer.RotateAccessToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Expired.
	shortLived := newTestSessionIssuer(db, -time.Minute)
	tokens, err = shortLived.Issue(context.Background(), 42)
	require.NoError(t, err)
	_, err = shortLived.RotateAccessToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestSessionIssuer_Revoke_UnknownIsNoop(t *testing.T) {
	db := newTestDB(t)
	issuer := newTestSessionIssuer(db, 7*24*time.Hour)

	assert.NoError(t, issuer.Revoke(context.Background(), "never-issued"))

	// Revoking twice is fine as well.
	tokens, err := issuer.Issue(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, issuer.Revoke(context.Background(), tokens.RefreshToken))
	assert.NoError(t, issuer.Revoke(context.Background(), tokens.RefreshToken))
}

func TestSessionIssuer_RevokeAllForUser(t *testing.T) {
	db := newTestDB(t)
	issuer := newTestSessionIssuer(db, 7*24*time.Hour)

	t1, err := issuer.Issue(context.Background(), 42)
	require.NoError(t, err)
	t2, err := issuer.Issue(context.Background(), 42)
	require.NoError(t, err)
	other, err := issuer.Issue(context.Background(), 7)
	require.NoError(t, err)

	revoked, err := issuer.RevokeAllForUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revoked)

	_, err = issuer.RotateAccessToken(context.Background(), t1.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = issuer.RotateAccessToken(context.Background(), t2.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Other users are untouched.
	_, err = issuer.RotateAccessToken(context.Background(), other.RefreshToken)
	assert.NoError(t, err)

	revoked, err = issuer.RevokeAllForUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, revoked, "already-revoked rows are not counted again")
}

func TestSessionIssuer_CleanupExpired(t *testing.T) {
	db := newTestDB(t)
	live := newTestSessionIssuer(db, 7*24*time.Hour)
	dead := newTestSessionIssuer(db, -time.Minute)

	_, err := dead.Issue(context.Background(), 1)
	require.NoError(t, err)
	_, err = dead.Issue(context.Background(), 2)
	require.NoError(t, err)
	_, err = live.Issue(context.Background(), 3)
	require.NoError(t, err)

	removed, err := live.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	removed, err = live.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)

	var left int64
	require.NoError(t, db.Model(&domain.RefreshToken{}).Count(&left).Error)
	assert.Equal(t, int64(1), left)
}

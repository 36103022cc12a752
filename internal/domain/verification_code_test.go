package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationCode_IsExpired(t *testing.T) {
	now := time.Now()
	c := VerificationCode{
		Email:     "a@x.com",
		CodeHash:  "deadbeef",
		Attempts:  1,
		ExpiresAt: now.Add(10 * time.Minute),
	}

	assert.False(t, c.IsExpired(now))
	assert.True(t, c.IsExpired(now.Add(10*time.Minute)), "expiry instant itself counts as expired")
	assert.True(t, c.IsExpired(now.Add(11*time.Minute)))
}

func TestRefreshToken_Usable(t *testing.T) {
	now := time.Now()
	tok := RefreshToken{TokenHash: "deadbeef", ExpiresAt: now.Add(time.Hour)}

	assert.True(t, tok.Usable(now))

	tok.IsRevoked = true
	assert.False(t, tok.Usable(now))

	tok.IsRevoked = false
	assert.False(t, tok.Usable(now.Add(2*time.Hour)))
}

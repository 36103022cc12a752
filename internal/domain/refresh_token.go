package domain

import "time"

// RefreshToken stores long-lived session credentials.
//
// Security notes:
// - We never store the raw token in DB, only its SHA-256 hash (TokenHash).
// - Tokens are deliberately NOT rotated on refresh: the same refresh token
//   stays valid until its own expiry or explicit revocation. Redundant
//   refreshes from e.g. several devices are therefore harmless.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`

	IsRevoked bool      `json:"is_revoked" gorm:"not null;default:false"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Usable reports whether the token may still be exchanged for access tokens.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsRevoked && !t.IsExpired(now)
}

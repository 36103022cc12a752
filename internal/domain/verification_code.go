package domain

import "time"

// VerificationCode is a one-time email login code.
//
// Only the SHA-256 hash of the code is stored (CodeHash). A code is
// single-use: verification marks it used whether it succeeded or turned out
// expired. Used rows are kept until cleanup because the rate limiter counts
// every code issued in its window, consumed or not.
type VerificationCode struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	Email    string `json:"email" gorm:"index;not null"`
	CodeHash string `json:"-" gorm:"size:64;not null"`

	// Attempts is the position of this code inside the current rate
	// window: 1 for the first request, up to the window maximum.
	Attempts int `json:"attempts" gorm:"not null;default:0"`

	IsUsed    bool      `json:"is_used" gorm:"not null;default:false"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (c *VerificationCode) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

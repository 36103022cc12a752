package domain

import "time"

// User is an account identified by email only; there is no password —
// login happens through one-time email codes.
type User struct {
	ID int64 `json:"-" gorm:"primaryKey"`

	// PublicID is the identifier exposed to clients.
	PublicID string `json:"id" gorm:"size:36;uniqueIndex;not null"`

	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Name     string `json:"name,omitempty"`
	IsActive bool   `json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

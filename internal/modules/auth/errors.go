package auth

import "errors"

// Expected, user-facing outcomes. Anything else bubbling out of the
// service is a server fault and gets a generic internal-error response.
var (
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrTooManyAttempts     = errors.New("too many code requests")
	ErrCodeNotFound        = errors.New("verification code not found")
	ErrCodeExpired         = errors.New("verification code expired")
	ErrInvalidToken        = errors.New("invalid access token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrEmailSend           = errors.New("failed to send verification email")
	ErrUserCreate          = errors.New("failed to create user")
)

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"clipvault/internal/domain"

	"gorm.io/gorm"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codeRegex  = regexp.MustCompile(`^\d{6}$`)
)

// CodeIssuer creates, rate-limits and validates one-time login codes.
type CodeIssuer struct {
	codes      VerificationCodeRepositoryInterface
	mailer     Mailer
	pepper     string
	codeTTL    time.Duration
	rateWindow time.Duration
	rateMax    int
}

func NewCodeIssuer(
	codes VerificationCodeRepositoryInterface,
	mailer Mailer,
	pepper string,
	codeTTL time.Duration,
	rateWindow time.Duration,
	rateMax int,
) *CodeIssuer {
	return &CodeIssuer{
		codes:      codes,
		mailer:     mailer,
		pepper:     pepper,
		codeTTL:    codeTTL,
		rateWindow: rateWindow,
		rateMax:    rateMax,
	}
}

// SendCode issues a fresh code for the email and dispatches it.
//
// Rate limiting is a fixed window recomputed per request: every code issued
// inside the trailing window counts, used or not. Three codes at minute 59
// and three more at minute 61 is an accepted limitation of this scheme.
//
// The code row is persisted before the email goes out and is NOT rolled
// back when delivery fails, so a valid code can exist with no delivered
// email; the caller sees ErrEmailSend in that case.
func (ci *CodeIssuer) SendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	now := time.Now()
	recent, err := ci.codes.CountSince(ctx, email, now.Add(-ci.rateWindow))
	if err != nil {
		return err
	}
	if recent >= int64(ci.rateMax) {
		return ErrTooManyAttempts
	}

	// Only the newest code is ever valid.
	if err := ci.codes.MarkAllUsed(ctx, email); err != nil {
		return err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	row := &domain.VerificationCode{
		Email:     email,
		CodeHash:  hashWithPepper(code, ci.pepper),
		Attempts:  int(recent) + 1,
		ExpiresAt: now.Add(ci.codeTTL),
	}
	if err := ci.codes.Create(ctx, row); err != nil {
		return err
	}

	if err := ci.mailer.SendVerificationCode(ctx, email, code); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSend, err)
	}
	return nil
}

// VerifyAndConsume checks a submitted code. A code is single-use: success
// and failure-by-expiry both consume it; only "not found" leaves state
// untouched. An expired code therefore answers ErrCodeExpired once and
// ErrCodeNotFound on every retry.
func (ci *CodeIssuer) VerifyAndConsume(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if !codeRegex.MatchString(code) {
		return ErrCodeNotFound
	}

	row, err := ci.codes.FindActive(ctx, email, hashWithPepper(code, ci.pepper))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeNotFound
		}
		return err
	}

	if row.IsExpired(time.Now()) {
		// Consume even though expired, so the code cannot be retried.
		if err := ci.codes.MarkUsed(ctx, row.ID); err != nil {
			return err
		}
		return ErrCodeExpired
	}

	return ci.codes.MarkUsed(ctx, row.ID)
}

// CleanupExpired deletes every code past its expiry. Idempotent; meant to
// be invoked by an external scheduler.
func (ci *CodeIssuer) CleanupExpired(ctx context.Context) (int64, error) {
	return ci.codes.DeleteExpired(ctx, time.Now())
}

// generateVerificationCode draws a uniform 6-digit code in 100000-999999.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashWithPepper(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

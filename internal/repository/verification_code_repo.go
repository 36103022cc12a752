package repository

import (
	"context"
	"time"

	"clipvault/internal/domain"

	"gorm.io/gorm"
)

// VerificationCodeRepository provides DB access for email login codes.
// Queries never go beyond equality/range filters on email, code hash and
// expiry, so any SQL backend works.
type VerificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

func (r *VerificationCodeRepository) Create(ctx context.Context, c *domain.VerificationCode) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// FindActive returns the newest unused code row matching email and hash.
func (r *VerificationCodeRepository) FindActive(ctx context.Context, email, codeHash string) (*domain.VerificationCode, error) {
	var c domain.VerificationCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code_hash = ? AND is_used = ?", email, codeHash, false).
		Order("created_at DESC").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountSince counts every code issued for the email after the cutoff,
// used or not. The rate limiter recomputes this on each request.
func (r *VerificationCodeRepository) CountSince(ctx context.Context, email string, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.VerificationCode{}).
		Where("email = ? AND created_at >= ?", email, since).
		Count(&n).Error
	return n, err
}

func (r *VerificationCodeRepository) MarkUsed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.VerificationCode{}).
		Where("id = ?", id).
		Update("is_used", true).Error
}

// MarkAllUsed invalidates every live code for the email. Called right
// before issuing a new code so only the newest one is ever valid.
func (r *VerificationCodeRepository) MarkAllUsed(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Model(&domain.VerificationCode{}).
		Where("email = ? AND is_used = ?", email, false).
		Update("is_used", true).Error
}

// DeleteExpired removes every code past its expiry, used or not, and
// reports how many went away. Safe to run repeatedly.
func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.VerificationCode{})
	return res.RowsAffected, res.Error
}

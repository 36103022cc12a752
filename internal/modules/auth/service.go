package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"clipvault/internal/domain"
	"clipvault/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service orchestrates the send-code / verify-code / refresh / logout
// flows over the code issuer, session issuer and user storage. It holds no
// state of its own: every check is a fresh read, since rate limiting,
// one-time-use and revocation all depend on current rows.
type Service struct {
	codes    CodeIssuerInterface
	sessions SessionIssuerInterface
	users    UserRepositoryInterface
	mailer   Mailer
}

type LoginResult struct {
	User      *domain.User
	Tokens    *Tokens
	IsNewUser bool
}

func NewService(
	codes CodeIssuerInterface,
	sessions SessionIssuerInterface,
	users UserRepositoryInterface,
	mailer Mailer,
) *Service {
	return &Service{
		codes:    codes,
		sessions: sessions,
		users:    users,
		mailer:   mailer,
	}
}

func (s *Service) SendVerificationCode(ctx context.Context, email string) error {
	return s.codes.SendCode(ctx, email)
}

// VerifyCodeAndLogin consumes the code, then finds or creates the user and
// mints a session. The welcome email for new users is fire-and-forget: its
// failure or delay never blocks or fails the login.
func (s *Service) VerifyCodeAndLogin(ctx context.Context, email, code string) (*LoginResult, error) {
	if err := s.codes.VerifyAndConsume(ctx, email, code); err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	isNewUser := false

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if touchErr := s.users.TouchLastLogin(ctx, user.ID); touchErr != nil {
			log.Printf("auth: failed to touch last login for user %d: %v", user.ID, touchErr)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.createUser(ctx, email)
		if err != nil {
			return nil, err
		}
		isNewUser = true

		go func() {
			if mailErr := s.mailer.SendWelcomeEmail(context.Background(), email); mailErr != nil {
				log.Printf("auth: failed to send welcome email to %s: %v", email, mailErr)
			}
		}()
	default:
		return nil, err
	}

	tokens, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Tokens: tokens, IsNewUser: isNewUser}, nil
}

// createUser handles the race where two devices complete verification at
// the same moment: the create that loses on the unique email index falls
// back to reading the winner's row.
func (s *Service) createUser(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{
		PublicID: uuid.NewString(),
		Email:    email,
		IsActive: true,
	}
	err := s.users.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return s.users.GetByEmail(ctx, email)
	}
	return nil, fmt.Errorf("%w: %v", ErrUserCreate, err)
}

func (s *Service) RefreshAccessToken(ctx context.Context, refreshRaw string) (string, error) {
	return s.sessions.RotateAccessToken(ctx, refreshRaw)
}

// Logout always succeeds from the caller's point of view; a missing token
// is a no-op and storage faults are only logged.
func (s *Service) Logout(ctx context.Context, refreshRaw string) {
	if err := s.sessions.Revoke(ctx, refreshRaw); err != nil {
		log.Printf("auth: logout revoke failed: %v", err)
	}
}

// LogoutAll revokes every session the user holds, for logout-everywhere
// and security response.
func (s *Service) LogoutAll(ctx context.Context, userID int64) (int64, error) {
	return s.sessions.RevokeAllForUser(ctx, userID)
}

func (s *Service) VerifyAccessToken(tokenStr string) (int64, error) {
	return s.sessions.VerifyAccessToken(tokenStr)
}

func (s *Service) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

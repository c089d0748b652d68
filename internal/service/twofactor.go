package service

import (
	"context"
	"fmt"
	"time"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
	"admission-portal-backend/internal/security"
)

const (
	twoFactorCodeDigits = 6
	// a code is discarded after this many verification attempts
	maxTwoFactorAttempts int32 = 5
)

var (
	ErrTwoFactorNotEnabled = fmt.Errorf("%w: two-factor authentication is not enabled", domain.ErrStateConflict)
	ErrInvalidCode         = fmt.Errorf("%w: invalid or expired verification code", domain.ErrUnauthorized)
)

// twoFactorService implements email-code two-factor authentication. A code
// is stored as a bcrypt hash with an expiry and is single use.
type twoFactorService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	emailSvc EmailService
	codeTTL  time.Duration
	now      func() time.Time
}

func NewTwoFactorService(userRepo repository.UserRepository, tokens security.TokenManager, emailSvc EmailService, codeTTL time.Duration) TwoFactorService {
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &twoFactorService{
		userRepo: userRepo,
		tokens:   tokens,
		emailSvc: emailSvc,
		codeTTL:  codeTTL,
		now:      time.Now,
	}
}

func (s *twoFactorService) Status(ctx context.Context, userID int32) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.TwoFactorEnabled, nil
}

func (s *twoFactorService) Enable(ctx context.Context, userID int32) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled {
		return nil
	}
	user.TwoFactorEnabled = true
	clearCode(user)
	if err := s.userRepo.UpdateTwoFactor(ctx, user); err != nil {
		return err
	}
	logger.Info("Two-factor authentication enabled", "userID", userID)
	return nil
}

func (s *twoFactorService) Disable(ctx context.Context, userID int32, password string) error {
	user, err := s.confirmPassword(ctx, userID, password)
	if err != nil {
		return err
	}
	user.TwoFactorEnabled = false
	clearCode(user)
	if err := s.userRepo.UpdateTwoFactor(ctx, user); err != nil {
		return err
	}
	logger.Info("Two-factor authentication disabled", "userID", userID)
	return nil
}

// Reset invalidates any outstanding code and mails a fresh one.
func (s *twoFactorService) Reset(ctx context.Context, userID int32, password string) error {
	user, err := s.confirmPassword(ctx, userID, password)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return ErrTwoFactorNotEnabled
	}
	clearCode(user)
	if err := s.userRepo.UpdateTwoFactor(ctx, user); err != nil {
		return err
	}
	return s.sendCode(ctx, user)
}

func (s *twoFactorService) SendChallenge(ctx context.Context, userID int32) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return ErrTwoFactorNotEnabled
	}
	return s.sendCode(ctx, user)
}

func (s *twoFactorService) Verify(ctx context.Context, userID int32, code string) (*AuthTokens, error) {
	logger.EnterMethod("twoFactorService.Verify", "userID", userID)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.TwoFactorEnabled {
		return nil, ErrTwoFactorNotEnabled
	}
	if user.TwoFactorCodeHash == "" || user.TwoFactorCodeExpires == nil || s.now().After(*user.TwoFactorCodeExpires) {
		logger.Warn("Two-factor verification without a live code", "userID", userID)
		return nil, ErrInvalidCode
	}

	// counted before comparing; concurrent guesses draw on the same budget
	attempts, err := s.userRepo.RecordTwoFactorAttempt(ctx, userID, maxTwoFactorAttempts)
	if err != nil {
		return nil, err
	}
	if attempts > maxTwoFactorAttempts {
		logger.Warn("Two-factor attempts exhausted", "userID", userID, "attempts", attempts)
		return nil, ErrInvalidCode
	}
	if !security.CompareSecret(user.TwoFactorCodeHash, code) {
		logger.Warn("Two-factor verification failed", "userID", userID, "attempts", attempts)
		return nil, ErrInvalidCode
	}

	clearCode(user)
	if err := s.userRepo.UpdateTwoFactor(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := issueTokens(s.tokens, user, true)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("twoFactorService.Verify", "userID", userID)
	return tokens, nil
}

func (s *twoFactorService) sendCode(ctx context.Context, user *domain.User) error {
	code, err := security.GenerateNumericCode(twoFactorCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	hash, err := security.HashSecret(code)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}
	expires := s.now().Add(s.codeTTL)
	user.TwoFactorCodeHash = hash
	user.TwoFactorCodeExpires = &expires
	if err := s.userRepo.UpdateTwoFactor(ctx, user); err != nil {
		return err
	}
	if err := s.emailSvc.SendTwoFactorCode(ctx, user.Email, user.Name, code, int(s.codeTTL.Minutes())); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

func (s *twoFactorService) confirmPassword(ctx context.Context, userID int32, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !security.CompareSecret(user.PasswordHash, password) {
		verr := domain.NewValidationError()
		verr.Add("password", "is incorrect")
		return nil, verr
	}
	return user, nil
}

func clearCode(user *domain.User) {
	user.TwoFactorCodeHash = ""
	user.TwoFactorCodeExpires = nil
}

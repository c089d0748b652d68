package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
	"admission-portal-backend/internal/security"
)

const minPasswordLength = 8

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	ErrAccountInactive    = fmt.Errorf("%w: account is deactivated", domain.ErrForbidden)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	logger.EnterMethod("authService.Register", "email", email)

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	verr := domain.NewValidationError()
	if name == "" {
		verr.Add("name", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "must be a valid email address")
	}
	if len(password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if err := verr.OrNil(); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", email)
		return nil, err
	}

	hash, err := security.HashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleStudent,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", email)
		return nil, err
	}

	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	logger.EnterMethod("authService.Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Login attempt for unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.CompareSecret(user.PasswordHash, password) {
		logger.Warn("Login attempt with wrong password", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	// Every new session starts unverified; the gate asks for a code when
	// the user has 2FA enabled.
	tokens, err := s.issueTokens(user, false)
	if err != nil {
		return nil, err
	}

	logger.ExitMethod("authService.Login", "userID", user.ID, "twoFactorRequired", tokens.TwoFactorRequired)
	return tokens, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (*AuthTokens, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil || claims.Type != security.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return s.issueTokens(user, claims.TwoFactorVerified)
}

// Logout is a no-op server side; tokens expire on their own.
func (s *authService) Logout(ctx context.Context, userID int32) error {
	logger.Info("User logged out", "userID", userID)
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) error {
	logger.EnterMethod("authService.ChangePassword", "userID", userID)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !security.CompareSecret(user.PasswordHash, currentPassword) {
		verr := domain.NewValidationError()
		verr.Add("current_password", "is incorrect")
		return verr
	}
	if len(newPassword) < minPasswordLength {
		verr := domain.NewValidationError()
		verr.Add("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
		return verr
	}

	hash, err := security.HashSecret(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		logger.ExitMethodWithError("authService.ChangePassword", err, "userID", userID)
		return err
	}

	logger.ExitMethod("authService.ChangePassword", "userID", userID)
	return nil
}

func (s *authService) issueTokens(user *domain.User, twoFactorVerified bool) (*AuthTokens, error) {
	return issueTokens(s.tokens, user, twoFactorVerified)
}

func issueTokens(tokens security.TokenManager, user *domain.User, twoFactorVerified bool) (*AuthTokens, error) {
	access, err := tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role), twoFactorVerified)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := tokens.GenerateRefreshToken(user.ID, user.Email, twoFactorVerified)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &AuthTokens{
		AccessToken:       access,
		RefreshToken:      refresh,
		TwoFactorRequired: user.TwoFactorEnabled && !twoFactorVerified,
		User:              user,
	}, nil
}

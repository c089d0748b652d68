package service

import (
	"context"
	"strings"
	"time"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
)

const dateLayout = "2006-01-02"

type profileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

// RefreshProfileCompletion recomputes the cached flag and writes it back only
// when it changed.
func (s *profileService) RefreshProfileCompletion(ctx context.Context, user *domain.User) (bool, error) {
	completed, changed := admission.RefreshProfileCompletion(user)
	if !changed {
		return completed, nil
	}
	if err := s.userRepo.UpdateProfileCompleted(ctx, user.ID, completed); err != nil {
		logger.Error("Failed to persist profile completion", "userID", user.ID, "error", err)
		return completed, err
	}
	logger.Debug("Profile completion changed", "userID", user.ID, "completed", completed)
	return completed, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.RefreshProfileCompletion(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID int32, input ProfileInput) (*domain.User, error) {
	logger.EnterMethod("profileService.UpdateProfile", "userID", userID)

	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Address = strings.TrimSpace(input.Address)
	input.DateOfBirth = strings.TrimSpace(input.DateOfBirth)
	if err := validateProfile(input); err != nil {
		logger.ExitMethodWithError("profileService.UpdateProfile", err, "userID", userID)
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = input.Name
	user.Phone = input.Phone
	user.Address = input.Address
	user.DateOfBirth = input.DateOfBirth
	admission.RefreshProfileCompletion(user)

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("profileService.UpdateProfile", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("profileService.UpdateProfile", "userID", userID, "profileCompleted", user.ProfileCompleted)
	return user, nil
}

func (s *profileService) SetPushToken(ctx context.Context, userID int32, token string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.PushToken = strings.TrimSpace(token)
	admission.RefreshProfileCompletion(user)
	return s.userRepo.Update(ctx, user)
}

func validateProfile(input ProfileInput) error {
	verr := domain.NewValidationError()
	if input.Name == "" {
		verr.Add("name", "is required")
	}
	if input.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, input.DateOfBirth)
		if err != nil {
			verr.Add("date_of_birth", "must be a date in YYYY-MM-DD format")
		} else if dob.After(time.Now()) {
			verr.Add("date_of_birth", "must be in the past")
		}
	}
	if len(input.Phone) > 32 {
		verr.Add("phone", "is too long")
	}
	return verr.OrNil()
}

package http_test

import (
	"context"
	"io"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/repository"
	"admission-portal-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// Each mock embeds the interface it stands in for and overrides only the
// methods the handler tests exercise.

type MockUserRepo struct {
	mock.Mock
	repository.UserRepository
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfileCompleted(ctx context.Context, userID int32, completed bool) error {
	args := m.Called(ctx, userID, completed)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
	service.AuthService
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthTokens, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthTokens), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockTwoFactorService struct {
	mock.Mock
	service.TwoFactorService
}

func (m *MockTwoFactorService) Verify(ctx context.Context, userID int32, code string) (*service.AuthTokens, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthTokens), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
	service.ProfileService
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID int32, input service.ProfileInput) (*domain.User, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockApplicationService struct {
	mock.Mock
	service.ApplicationService
}

func (m *MockApplicationService) GetDashboard(ctx context.Context, userID int32) (*domain.ApplicationOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationOverview), args.Error(1)
}

func (m *MockApplicationService) Submit(ctx context.Context, userID int32) (*domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) UploadDocument(ctx context.Context, userID int32, input service.UploadInput) (*domain.Document, error) {
	// drain the reader so the test can assert on what the handler streamed
	content, _ := io.ReadAll(input.Content)
	input.Content = nil
	args := m.Called(ctx, userID, input, string(content))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockApplicationService) OpenDocument(ctx context.Context, requester *domain.User, documentID int32) (*domain.Document, io.ReadCloser, error) {
	args := m.Called(ctx, requester, documentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Document), args.Get(1).(io.ReadCloser), args.Error(2)
}

type MockAdminService struct {
	mock.Mock
	service.AdminService
}

func (m *MockAdminService) Stats(ctx context.Context) (map[domain.ApplicationStatus]int32, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ApplicationStatus]int32), args.Error(1)
}

func (m *MockAdminService) UpdateApplicationStatus(ctx context.Context, adminID, applicationID int32, status string) (*domain.Application, error) {
	args := m.Called(ctx, adminID, applicationID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
	service.NotificationService
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

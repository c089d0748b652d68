package service_test

import (
	"context"
	"io"

	"admission-portal-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateProfileCompleted(ctx context.Context, userID int32, completed bool) error {
	args := m.Called(ctx, userID, completed)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, userID int32, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateTwoFactor(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) RecordTwoFactorAttempt(ctx context.Context, userID int32, maxAttempts int32) (int32, error) {
	args := m.Called(ctx, userID, maxAttempts)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, role string, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, role, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application, steps []domain.ApplicationStep) error {
	args := m.Called(ctx, app, steps)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int32, status domain.ApplicationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockApplicationRepo) TransitionStatus(ctx context.Context, id int32, from, to domain.ApplicationStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Application, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Application), args.Get(1).(int32), args.Error(2)
}
func (m *MockApplicationRepo) ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int32, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ApplicationStatus]int32), args.Error(1)
}

// MockDocumentRepo
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}
func (m *MockDocumentRepo) GetByID(ctx context.Context, id int32) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentRepo) ListByApplication(ctx context.Context, applicationID int32) ([]domain.Document, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]domain.Document), args.Error(1)
}
func (m *MockDocumentRepo) UpdateStatus(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}
func (m *MockDocumentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRequiredDocumentRepo
type MockRequiredDocumentRepo struct {
	mock.Mock
}

func (m *MockRequiredDocumentRepo) Create(ctx context.Context, req *domain.RequiredDocument) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequiredDocumentRepo) GetByID(ctx context.Context, id int32) (*domain.RequiredDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequiredDocument), args.Error(1)
}
func (m *MockRequiredDocumentRepo) Update(ctx context.Context, req *domain.RequiredDocument) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequiredDocumentRepo) List(ctx context.Context) ([]domain.RequiredDocument, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RequiredDocument), args.Error(1)
}
func (m *MockRequiredDocumentRepo) ListActive(ctx context.Context) ([]domain.RequiredDocument, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RequiredDocument), args.Error(1)
}

// MockStepRepo
type MockStepRepo struct {
	mock.Mock
}

func (m *MockStepRepo) Create(ctx context.Context, step *domain.ApplicationStep) error {
	args := m.Called(ctx, step)
	return args.Error(0)
}
func (m *MockStepRepo) GetByID(ctx context.Context, id int32) (*domain.ApplicationStep, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationStep), args.Error(1)
}
func (m *MockStepRepo) Update(ctx context.Context, step *domain.ApplicationStep) error {
	args := m.Called(ctx, step)
	return args.Error(0)
}
func (m *MockStepRepo) ListByApplication(ctx context.Context, applicationID int32) ([]domain.ApplicationStep, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]domain.ApplicationStep), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendTwoFactorCode(ctx context.Context, email, name, code string, validMinutes int) error {
	args := m.Called(ctx, email, name, code, validMinutes)
	return args.Error(0)
}
func (m *MockEmailService) SendApplicationStatusChanged(ctx context.Context, email, name, university string, status domain.ApplicationStatus) error {
	args := m.Called(ctx, email, name, university, status)
	return args.Error(0)
}
func (m *MockEmailService) SendDocumentValidated(ctx context.Context, email, name, documentType string, status domain.DocumentStatus, comment string) error {
	args := m.Called(ctx, email, name, documentType, status, comment)
	return args.Error(0)
}
func (m *MockEmailService) SendMissingDocumentsReminder(ctx context.Context, email, name, university string, missing []string) error {
	args := m.Called(ctx, email, name, university, missing)
	return args.Error(0)
}

// MockPushService
type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	args := m.Called(ctx, deviceToken, title, body, data)
	return args.Error(0)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
func (m *MockNotificationService) NotifyApplicationStatus(ctx context.Context, user *domain.User, app *domain.Application, previous domain.ApplicationStatus) {
	m.Called(ctx, user, app, previous)
}
func (m *MockNotificationService) NotifyDocumentValidated(ctx context.Context, user *domain.User, doc *domain.Document) {
	m.Called(ctx, user, doc)
}

// MockMailSender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) Send(ctx context.Context, to, toName, subject, body string) error {
	args := m.Called(ctx, to, toName, subject, body)
	return args.Error(0)
}

// MockFileStore
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, key string, reader io.Reader, maxBytes int64) (int64, error) {
	args := m.Called(ctx, key, reader, maxBytes)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
func (m *MockFileStore) Exists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}
func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

package service

import (
	"context"
	"io"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthTokens, error)
	RefreshToken(ctx context.Context, refresh string) (*AuthTokens, error)
	Logout(ctx context.Context, userID int32) error
	ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) error
}

type TwoFactorService interface {
	Status(ctx context.Context, userID int32) (bool, error)
	Enable(ctx context.Context, userID int32) error
	Disable(ctx context.Context, userID int32, password string) error
	Reset(ctx context.Context, userID int32, password string) error
	SendChallenge(ctx context.Context, userID int32) error
	Verify(ctx context.Context, userID int32, code string) (*AuthTokens, error)
}

// ProfileService owns the student's personal data and the cached
// profile_completed flag.
type ProfileService interface {
	admission.ProfileEvaluator
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, input ProfileInput) (*domain.User, error)
	SetPushToken(ctx context.Context, userID int32, token string) error
}

type ApplicationService interface {
	CreateApplication(ctx context.Context, userID int32, input ApplicationInput) (*domain.Application, error)
	GetDashboard(ctx context.Context, userID int32) (*domain.ApplicationOverview, error)
	Submit(ctx context.Context, userID int32) (*domain.Application, error)
	UploadDocument(ctx context.Context, userID int32, input UploadInput) (*domain.Document, error)
	DeleteDocument(ctx context.Context, userID, documentID int32) error
	OpenDocument(ctx context.Context, requester *domain.User, documentID int32) (*domain.Document, io.ReadCloser, error)
	ListRequiredDocuments(ctx context.Context) ([]domain.RequiredDocument, error)
}

type AdminService interface {
	ListApplications(ctx context.Context, status string, page, pageSize int32) ([]ApplicationSummary, int32, error)
	GetApplication(ctx context.Context, applicationID int32) (*ApplicationDetail, error)
	UpdateApplicationStatus(ctx context.Context, adminID, applicationID int32, status string) (*domain.Application, error)
	ValidateDocument(ctx context.Context, adminID, documentID int32, status, comment string) (*domain.Document, error)
	AddStep(ctx context.Context, applicationID int32, input StepInput) (*domain.ApplicationStep, error)
	UpdateStep(ctx context.Context, stepID int32, input StepInput) (*domain.ApplicationStep, error)
	ListRequiredDocuments(ctx context.Context) ([]domain.RequiredDocument, error)
	CreateRequiredDocument(ctx context.Context, input RequiredDocumentInput) (*domain.RequiredDocument, error)
	UpdateRequiredDocument(ctx context.Context, id int32, input RequiredDocumentInput) (*domain.RequiredDocument, error)
	ListUsers(ctx context.Context, role string, page, pageSize int32) ([]domain.User, int32, error)
	UpdateUser(ctx context.Context, adminID, userID int32, input UserUpdateInput) (*domain.User, error)
	Stats(ctx context.Context) (map[domain.ApplicationStatus]int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
	// Notify* deliver in-app, email and push messages. Delivery failures are
	// logged and never returned.
	NotifyApplicationStatus(ctx context.Context, user *domain.User, app *domain.Application, previous domain.ApplicationStatus)
	NotifyDocumentValidated(ctx context.Context, user *domain.User, doc *domain.Document)
}

type EmailService interface {
	SendTwoFactorCode(ctx context.Context, email, name, code string, validMinutes int) error
	SendApplicationStatusChanged(ctx context.Context, email, name, university string, status domain.ApplicationStatus) error
	SendDocumentValidated(ctx context.Context, email, name, documentType string, status domain.DocumentStatus, comment string) error
	SendMissingDocumentsReminder(ctx context.Context, email, name, university string, missing []string) error
}

type PushService interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

// AuthTokens is returned by every operation that opens or extends a session.
type AuthTokens struct {
	AccessToken       string       `json:"access_token"`
	RefreshToken      string       `json:"refresh_token"`
	TwoFactorRequired bool         `json:"two_factor_required"`
	User              *domain.User `json:"user,omitempty"`
}

type ProfileInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
}

type ApplicationInput struct {
	University    string `json:"university"`
	Program       string `json:"program"`
	Motivation    string `json:"motivation"`
	PriorityLevel string `json:"priority_level"`
}

type UploadInput struct {
	DocumentType string
	OriginalName string
	ContentType  string
	Size         int64
	Content      io.Reader
}

type StepInput struct {
	Name     string `json:"name"`
	Position *int32 `json:"position,omitempty"`
	Status   string `json:"status"`
}

type RequiredDocumentInput struct {
	DocumentType string  `json:"document_type"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type UserUpdateInput struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ApplicationSummary is one row of the admin listing.
type ApplicationSummary struct {
	domain.Application
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	Progress     int    `json:"progress"`
}

// ApplicationDetail is the admin view of one application.
type ApplicationDetail struct {
	*domain.ApplicationOverview
	Student *domain.User `json:"student"`
}

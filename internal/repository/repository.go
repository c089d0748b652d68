package repository

import (
	"context"

	"admission-portal-backend/internal/domain"
)

// Repositories return domain.ErrNotFound for missing rows and
// domain.ErrStateConflict-derived errors for unique violations.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateProfileCompleted(ctx context.Context, userID int32, completed bool) error
	UpdatePassword(ctx context.Context, userID int32, passwordHash string) error
	UpdateTwoFactor(ctx context.Context, user *domain.User) error
	// RecordTwoFactorAttempt counts one verification attempt against the
	// outstanding code, clears the code once maxAttempts is reached and
	// returns the new count.
	RecordTwoFactorAttempt(ctx context.Context, userID int32, maxAttempts int32) (int32, error)
	List(ctx context.Context, role string, page, pageSize int32) ([]domain.User, int32, error)
}

type ApplicationRepository interface {
	// Create inserts the application and its initial steps atomically; the
	// steps receive their ids and application id.
	Create(ctx context.Context, app *domain.Application, steps []domain.ApplicationStep) error
	GetByID(ctx context.Context, id int32) (*domain.Application, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Application, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ApplicationStatus) error
	// TransitionStatus changes the status only if it still equals from and
	// reports whether a row changed.
	TransitionStatus(ctx context.Context, id int32, from, to domain.ApplicationStatus) (bool, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Application, int32, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int32, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id int32) (*domain.Document, error)
	ListByApplication(ctx context.Context, applicationID int32) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id int32) error
}

type RequiredDocumentRepository interface {
	Create(ctx context.Context, req *domain.RequiredDocument) error
	GetByID(ctx context.Context, id int32) (*domain.RequiredDocument, error)
	Update(ctx context.Context, req *domain.RequiredDocument) error
	List(ctx context.Context) ([]domain.RequiredDocument, error)
	ListActive(ctx context.Context) ([]domain.RequiredDocument, error)
}

type ApplicationStepRepository interface {
	Create(ctx context.Context, step *domain.ApplicationStep) error
	GetByID(ctx context.Context, id int32) (*domain.ApplicationStep, error)
	Update(ctx context.Context, step *domain.ApplicationStep) error
	ListByApplication(ctx context.Context, applicationID int32) ([]domain.ApplicationStep, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
	"admission-portal-backend/internal/storage"
)

// ApplicationOptions carries the configurable parts of the student workflow.
type ApplicationOptions struct {
	DefaultSteps []string
	MaxFileSize  int64 // bytes
	AllowedTypes []string
}

type applicationService struct {
	appRepo  repository.ApplicationRepository
	docRepo  repository.DocumentRepository
	reqRepo  repository.RequiredDocumentRepository
	stepRepo repository.ApplicationStepRepository
	userRepo repository.UserRepository
	files    storage.FileStore
	notifier NotificationService
	opts     ApplicationOptions
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	docRepo repository.DocumentRepository,
	reqRepo repository.RequiredDocumentRepository,
	stepRepo repository.ApplicationStepRepository,
	userRepo repository.UserRepository,
	files storage.FileStore,
	notifier NotificationService,
	opts ApplicationOptions,
) ApplicationService {
	return &applicationService{
		appRepo:  appRepo,
		docRepo:  docRepo,
		reqRepo:  reqRepo,
		stepRepo: stepRepo,
		userRepo: userRepo,
		files:    files,
		notifier: notifier,
		opts:     opts,
	}
}

func (s *applicationService) CreateApplication(ctx context.Context, userID int32, input ApplicationInput) (*domain.Application, error) {
	logger.EnterMethod("applicationService.CreateApplication", "userID", userID)

	verr := domain.NewValidationError()
	if strings.TrimSpace(input.University) == "" {
		verr.Add("university", "is required")
	}
	if strings.TrimSpace(input.Program) == "" {
		verr.Add("program", "is required")
	}
	var priority domain.PriorityLevel
	if input.PriorityLevel != "" {
		p, err := domain.ParsePriorityLevel(input.PriorityLevel)
		if err != nil {
			verr.Add("priority_level", "must be one of low, medium, high")
		}
		priority = p
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// Fast path; the unique constraint on applications.user_id settles races.
	if _, err := s.appRepo.GetByUserID(ctx, userID); err == nil {
		return nil, domain.ErrApplicationExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	app := admission.NewApplication(userID, strings.TrimSpace(input.University), strings.TrimSpace(input.Program),
		strings.TrimSpace(input.Motivation), priority)
	steps := make([]domain.ApplicationStep, 0, len(s.opts.DefaultSteps))
	for i, name := range s.opts.DefaultSteps {
		steps = append(steps, domain.ApplicationStep{
			Name:     name,
			Position: int32(i + 1),
			Status:   domain.StepStatusPending,
		})
	}
	if err := s.appRepo.Create(ctx, app, steps); err != nil {
		logger.ExitMethodWithError("applicationService.CreateApplication", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("applicationService.CreateApplication", "applicationID", app.ID)
	return app, nil
}

// GetDashboard returns the student's overview. A student without an
// application gets an empty overview listing every required document.
func (s *applicationService) GetDashboard(ctx context.Context, userID int32) (*domain.ApplicationOverview, error) {
	required, err := s.reqRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	app, err := s.appRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return admission.Overview(nil, nil, nil, required), nil
		}
		return nil, err
	}
	return loadOverview(ctx, app, s.docRepo, s.stepRepo, required)
}

func (s *applicationService) Submit(ctx context.Context, userID int32) (*domain.Application, error) {
	logger.EnterMethod("applicationService.Submit", "userID", userID)

	app, err := s.appRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docRepo.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	required, err := s.reqRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	previous := app.Status
	if err := admission.Submit(app, docs, required); err != nil {
		logger.ExitMethodWithError("applicationService.Submit", err, "applicationID", app.ID)
		return nil, err
	}

	// The conditional update only succeeds once even under concurrent submits.
	changed, err := s.appRepo.TransitionStatus(ctx, app.ID, previous, app.Status)
	if err != nil {
		return nil, err
	}
	if !changed {
		logger.ExitMethodWithError("applicationService.Submit", domain.ErrInvalidTransition, "applicationID", app.ID)
		return nil, domain.ErrInvalidTransition
	}

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		s.notifier.NotifyApplicationStatus(ctx, user, app, previous)
	} else {
		logger.Warn("Could not load student for submission notice", "userID", userID, "error", err)
	}

	logger.ExitMethod("applicationService.Submit", "applicationID", app.ID)
	return app, nil
}

func (s *applicationService) UploadDocument(ctx context.Context, userID int32, input UploadInput) (*domain.Document, error) {
	logger.EnterMethod("applicationService.UploadDocument", "userID", userID, "documentType", input.DocumentType)

	app, err := s.appRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, domain.ErrApplicationLocked
	}

	required, err := s.reqRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validateUpload(input, required); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	if admission.HasDocumentType(docs, input.DocumentType) {
		return nil, domain.ErrDuplicateDocument
	}

	key := storage.NewKey(app.ID, input.DocumentType, input.OriginalName)
	size, err := s.files.Save(ctx, key, input.Content, s.opts.MaxFileSize)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, fileTooLarge(s.opts.MaxFileSize)
		}
		logger.ExitMethodWithError("applicationService.UploadDocument", err, "applicationID", app.ID)
		return nil, err
	}

	doc := &domain.Document{
		ApplicationID: app.ID,
		DocumentType:  input.DocumentType,
		FilePath:      key,
		OriginalName:  input.OriginalName,
		ContentType:   input.ContentType,
		FileSize:      size,
		Status:        domain.DocumentStatusPending,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			logger.Error("Failed to remove orphaned upload", "key", key, "error", delErr)
		}
		logger.ExitMethodWithError("applicationService.UploadDocument", err, "applicationID", app.ID)
		return nil, err
	}

	logger.ExitMethod("applicationService.UploadDocument", "documentID", doc.ID)
	return doc, nil
}

func (s *applicationService) validateUpload(input UploadInput, required []domain.RequiredDocument) error {
	verr := domain.NewValidationError()

	if input.DocumentType == "" {
		verr.Add("document_type", "is required")
	} else if !slices.Contains(admission.ActiveRequiredTypes(required), input.DocumentType) {
		verr.Add("document_type", "is not a required document type")
	}
	if input.Content == nil {
		verr.Add("file", "is required")
	}
	if len(s.opts.AllowedTypes) > 0 && !slices.Contains(s.opts.AllowedTypes, input.ContentType) {
		verr.Add("file", fmt.Sprintf("content type %q is not allowed", input.ContentType))
	}
	if s.opts.MaxFileSize > 0 && input.Size > s.opts.MaxFileSize {
		return fileTooLarge(s.opts.MaxFileSize)
	}
	return verr.OrNil()
}

func (s *applicationService) DeleteDocument(ctx context.Context, userID, documentID int32) error {
	logger.EnterMethod("applicationService.DeleteDocument", "userID", userID, "documentID", documentID)

	app, err := s.appRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.ApplicationID != app.ID {
		// Someone else's document is reported as absent.
		return domain.ErrNotFound
	}
	if app.Status != domain.ApplicationStatusPending {
		return domain.ErrApplicationLocked
	}
	if doc.Status == domain.DocumentStatusApproved {
		return domain.ErrDocumentLocked
	}

	if err := s.docRepo.Delete(ctx, doc.ID); err != nil {
		return err
	}
	if err := s.files.Delete(ctx, doc.FilePath); err != nil {
		logger.Error("Failed to remove document file", "key", doc.FilePath, "error", err)
	}

	logger.ExitMethod("applicationService.DeleteDocument", "documentID", documentID)
	return nil
}

// OpenDocument streams a stored file. Students may only read their own
// documents; admins may read any.
func (s *applicationService) OpenDocument(ctx context.Context, requester *domain.User, documentID int32) (*domain.Document, io.ReadCloser, error) {
	if requester == nil {
		return nil, nil, domain.ErrUnauthorized
	}
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}

	switch requester.Role {
	case domain.RoleAdmin:
	case domain.RoleStudent:
		app, err := s.appRepo.GetByUserID(ctx, requester.ID)
		if err != nil {
			return nil, nil, err
		}
		if app.ID != doc.ApplicationID {
			return nil, nil, domain.ErrNotFound
		}
	default:
		return nil, nil, domain.ErrForbidden
	}

	rc, err := s.files.Open(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return doc, rc, nil
}

func (s *applicationService) ListRequiredDocuments(ctx context.Context) ([]domain.RequiredDocument, error) {
	reqs, err := s.reqRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.RequiredDocument{}
	}
	return reqs, nil
}

func loadOverview(
	ctx context.Context,
	app *domain.Application,
	docRepo repository.DocumentRepository,
	stepRepo repository.ApplicationStepRepository,
	required []domain.RequiredDocument,
) (*domain.ApplicationOverview, error) {
	docs, err := docRepo.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	steps, err := stepRepo.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	return admission.Overview(app, docs, steps, required), nil
}

func fileTooLarge(limit int64) error {
	verr := domain.NewValidationError()
	verr.Add("file", fmt.Sprintf("must not exceed %d bytes", limit))
	return verr
}

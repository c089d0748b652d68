package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
)

var ErrSelfModification = fmt.Errorf("%w: administrators cannot demote or deactivate themselves", domain.ErrStateConflict)

type adminService struct {
	userRepo repository.UserRepository
	appRepo  repository.ApplicationRepository
	docRepo  repository.DocumentRepository
	reqRepo  repository.RequiredDocumentRepository
	stepRepo repository.ApplicationStepRepository
	notifier NotificationService
	now      func() time.Time
}

func NewAdminService(
	userRepo repository.UserRepository,
	appRepo repository.ApplicationRepository,
	docRepo repository.DocumentRepository,
	reqRepo repository.RequiredDocumentRepository,
	stepRepo repository.ApplicationStepRepository,
	notifier NotificationService,
) AdminService {
	return &adminService{
		userRepo: userRepo,
		appRepo:  appRepo,
		docRepo:  docRepo,
		reqRepo:  reqRepo,
		stepRepo: stepRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *adminService) ListApplications(ctx context.Context, status string, page, pageSize int32) ([]ApplicationSummary, int32, error) {
	if status != "" {
		if _, err := domain.ParseApplicationStatus(status); err != nil {
			verr := domain.NewValidationError()
			verr.Add("status", err.Error())
			return nil, 0, verr
		}
	}

	apps, total, err := s.appRepo.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]ApplicationSummary, 0, len(apps))
	for i := range apps {
		app := apps[i]
		steps, err := s.stepRepo.ListByApplication(ctx, app.ID)
		if err != nil {
			return nil, 0, err
		}
		summary := ApplicationSummary{
			Application: app,
			Progress:    admission.ProgressPercent(&app, steps),
		}
		if student, err := s.userRepo.GetByID(ctx, app.UserID); err == nil {
			summary.StudentName = student.Name
			summary.StudentEmail = student.Email
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, 0, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, total, nil
}

func (s *adminService) GetApplication(ctx context.Context, applicationID int32) (*ApplicationDetail, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	required, err := s.reqRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := loadOverview(ctx, app, s.docRepo, s.stepRepo, required)
	if err != nil {
		return nil, err
	}
	student, err := s.userRepo.GetByID(ctx, app.UserID)
	if err != nil {
		return nil, err
	}
	return &ApplicationDetail{ApplicationOverview: overview, Student: student}, nil
}

// UpdateApplicationStatus sets any of the five statuses regardless of the
// current one and notifies the student.
func (s *adminService) UpdateApplicationStatus(ctx context.Context, adminID, applicationID int32, status string) (*domain.Application, error) {
	logger.EnterMethod("adminService.UpdateApplicationStatus", "adminID", adminID, "applicationID", applicationID, "status", status)

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	previous, err := admission.SetStatus(app, domain.ApplicationStatus(status))
	if err != nil {
		return nil, err
	}
	if err := s.appRepo.UpdateStatus(ctx, app.ID, app.Status); err != nil {
		logger.ExitMethodWithError("adminService.UpdateApplicationStatus", err, "applicationID", applicationID)
		return nil, err
	}

	if previous != app.Status {
		s.notifyStudent(ctx, app.UserID, func(student *domain.User) {
			s.notifier.NotifyApplicationStatus(ctx, student, app, previous)
		})
	}

	logger.ExitMethod("adminService.UpdateApplicationStatus", "applicationID", applicationID, "from", previous, "to", app.Status)
	return app, nil
}

func (s *adminService) ValidateDocument(ctx context.Context, adminID, documentID int32, status, comment string) (*domain.Document, error) {
	logger.EnterMethod("adminService.ValidateDocument", "adminID", adminID, "documentID", documentID, "status", status)

	st, err := domain.ParseDocumentStatus(status)
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add("status", err.Error())
		return nil, verr
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	doc.Status = st
	doc.AdminComment = strings.TrimSpace(comment)
	if st == domain.DocumentStatusPending {
		doc.ValidatedBy = nil
		doc.ValidatedOn = nil
	} else {
		by := adminID
		on := s.now().Format(dateLayout)
		doc.ValidatedBy = &by
		doc.ValidatedOn = &on
	}
	if err := s.docRepo.UpdateStatus(ctx, doc); err != nil {
		logger.ExitMethodWithError("adminService.ValidateDocument", err, "documentID", documentID)
		return nil, err
	}

	if st != domain.DocumentStatusPending {
		if app, err := s.appRepo.GetByID(ctx, doc.ApplicationID); err == nil {
			s.notifyStudent(ctx, app.UserID, func(student *domain.User) {
				s.notifier.NotifyDocumentValidated(ctx, student, doc)
			})
		} else {
			logger.Warn("Could not load application for document notice", "documentID", documentID, "error", err)
		}
	}

	logger.ExitMethod("adminService.ValidateDocument", "documentID", documentID)
	return doc, nil
}

func (s *adminService) AddStep(ctx context.Context, applicationID int32, input StepInput) (*domain.ApplicationStep, error) {
	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}

	step := &domain.ApplicationStep{ApplicationID: applicationID, Status: domain.StepStatusPending}
	if input.Position == nil {
		existing, err := s.stepRepo.ListByApplication(ctx, applicationID)
		if err != nil {
			return nil, err
		}
		step.Position = int32(len(existing) + 1)
	}
	if err := s.applyStepInput(step, input, true); err != nil {
		return nil, err
	}
	if err := s.stepRepo.Create(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

func (s *adminService) UpdateStep(ctx context.Context, stepID int32, input StepInput) (*domain.ApplicationStep, error) {
	step, err := s.stepRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if err := s.applyStepInput(step, input, false); err != nil {
		return nil, err
	}
	if err := s.stepRepo.Update(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// applyStepInput copies the provided fields and keeps completed_on in line
// with the status.
func (s *adminService) applyStepInput(step *domain.ApplicationStep, input StepInput, requireName bool) error {
	verr := domain.NewValidationError()
	if name := strings.TrimSpace(input.Name); name != "" {
		step.Name = name
	} else if requireName {
		verr.Add("name", "is required")
	}
	if input.Position != nil {
		if *input.Position < 1 {
			verr.Add("position", "must be positive")
		}
		step.Position = *input.Position
	}
	if input.Status != "" {
		st, err := domain.ParseStepStatus(input.Status)
		if err != nil {
			verr.Add("status", err.Error())
		}
		step.Status = st
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	if step.Status == domain.StepStatusCompleted {
		if step.CompletedOn == nil {
			on := s.now().Format(dateLayout)
			step.CompletedOn = &on
		}
	} else {
		step.CompletedOn = nil
	}
	return nil
}

func (s *adminService) ListRequiredDocuments(ctx context.Context) ([]domain.RequiredDocument, error) {
	reqs, err := s.reqRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.RequiredDocument{}
	}
	return reqs, nil
}

func (s *adminService) CreateRequiredDocument(ctx context.Context, input RequiredDocumentInput) (*domain.RequiredDocument, error) {
	req := &domain.RequiredDocument{
		DocumentType: strings.TrimSpace(input.DocumentType),
		Description:  strings.TrimSpace(derefString(input.Description)),
		IsActive:     true,
	}
	if input.IsActive != nil {
		req.IsActive = *input.IsActive
	}
	if req.DocumentType == "" {
		verr := domain.NewValidationError()
		verr.Add("document_type", "is required")
		return nil, verr
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	logger.Info("Required document created", "documentType", req.DocumentType, "active", req.IsActive)
	return req, nil
}

func (s *adminService) UpdateRequiredDocument(ctx context.Context, id int32, input RequiredDocumentInput) (*domain.RequiredDocument, error) {
	req, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(input.DocumentType); t != "" {
		req.DocumentType = t
	}
	if input.Description != nil {
		req.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		req.IsActive = *input.IsActive
	}
	if err := s.reqRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *adminService) ListUsers(ctx context.Context, role string, page, pageSize int32) ([]domain.User, int32, error) {
	if role != "" {
		if _, err := domain.ParseRole(role); err != nil {
			verr := domain.NewValidationError()
			verr.Add("role", err.Error())
			return nil, 0, verr
		}
	}
	users, total, err := s.userRepo.List(ctx, role, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, total, nil
}

func (s *adminService) UpdateUser(ctx context.Context, adminID, userID int32, input UserUpdateInput) (*domain.User, error) {
	logger.EnterMethod("adminService.UpdateUser", "adminID", adminID, "userID", userID)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		role, err := domain.ParseRole(*input.Role)
		if err != nil {
			verr := domain.NewValidationError()
			verr.Add("role", err.Error())
			return nil, verr
		}
		if userID == adminID && role != domain.RoleAdmin {
			return nil, ErrSelfModification
		}
		user.Role = role
	}
	if input.IsActive != nil {
		if userID == adminID && !*input.IsActive {
			return nil, ErrSelfModification
		}
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("adminService.UpdateUser", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("adminService.UpdateUser", "userID", userID, "role", user.Role, "active", user.IsActive)
	return user, nil
}

func (s *adminService) Stats(ctx context.Context) (map[domain.ApplicationStatus]int32, error) {
	return s.appRepo.CountByStatus(ctx)
}

func (s *adminService) notifyStudent(ctx context.Context, userID int32, notify func(*domain.User)) {
	student, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Could not load student for notification", "userID", userID, "error", err)
		return
	}
	notify(student)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

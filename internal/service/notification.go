package service

import (
	"context"
	"fmt"
	"strings"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	emailSvc EmailService
	pushSvc  PushService
}

func NewNotificationService(noteRepo repository.NotificationRepository, emailSvc EmailService, pushSvc PushService) NotificationService {
	return &notificationService{
		noteRepo: noteRepo,
		emailSvc: emailSvc,
		pushSvc:  pushSvc,
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	notes, total, err := s.noteRepo.List(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	return notes, total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) NotifyApplicationStatus(ctx context.Context, user *domain.User, app *domain.Application, previous domain.ApplicationStatus) {
	if user == nil || app == nil {
		return
	}
	title := "Application status updated"
	message := fmt.Sprintf("Your application to %s is now %s.", app.University, statusLabel(string(app.Status)))
	attrs := map[string]string{
		"application_id":  fmt.Sprint(app.ID),
		"status":          string(app.Status),
		"previous_status": string(previous),
	}

	s.deliver(ctx, user, title, message, attrs, func() error {
		return s.emailSvc.SendApplicationStatusChanged(ctx, user.Email, user.Name, app.University, app.Status)
	})
}

func (s *notificationService) NotifyDocumentValidated(ctx context.Context, user *domain.User, doc *domain.Document) {
	if user == nil || doc == nil {
		return
	}
	title := "Document reviewed"
	message := fmt.Sprintf("Your %s document was %s.", doc.DocumentType, statusLabel(string(doc.Status)))
	if doc.AdminComment != "" {
		message += " Comment: " + doc.AdminComment
	}
	attrs := map[string]string{
		"document_id":   fmt.Sprint(doc.ID),
		"document_type": doc.DocumentType,
		"status":        string(doc.Status),
	}

	s.deliver(ctx, user, title, message, attrs, func() error {
		return s.emailSvc.SendDocumentValidated(ctx, user.Email, user.Name, doc.DocumentType, doc.Status, doc.AdminComment)
	})
}

// deliver fans a message out to every channel. Each failure is logged and
// the remaining channels still run.
func (s *notificationService) deliver(ctx context.Context, user *domain.User, title, message string, attrs map[string]string, sendEmail func() error) {
	note := &domain.Notification{
		UserID:     user.ID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store notification", "userID", user.ID, "error", err)
	}

	if err := sendEmail(); err != nil {
		logger.Error("Failed to send notification email", "userID", user.ID, "error", err)
	}

	if user.PushToken != "" && s.pushSvc != nil {
		if err := s.pushSvc.Send(ctx, user.PushToken, title, message, attrs); err != nil {
			logger.Error("Failed to send push notification", "userID", user.ID, "error", err)
		}
	}
}

func statusLabel(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

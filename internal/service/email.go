package service

import (
	"context"
	"fmt"
	"strings"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailSender delivers one plain-text message.
type MailSender interface {
	Send(ctx context.Context, to, toName, subject, body string) error
}

type emailService struct {
	sender MailSender
}

func NewEmailService(sender MailSender) EmailService {
	return &emailService{sender: sender}
}

func (s *emailService) SendTwoFactorCode(ctx context.Context, email, name, code string, validMinutes int) error {
	body := fmt.Sprintf("Hello %s,\n\nYour verification code is: %s\n\nThe code expires in %d minutes. If you did not try to sign in, please change your password.\n\nThe Admissions Team",
		name, code, validMinutes)
	return s.sender.Send(ctx, email, name, "Your verification code", body)
}

func (s *emailService) SendApplicationStatusChanged(ctx context.Context, email, name, university string, status domain.ApplicationStatus) error {
	subject := fmt.Sprintf("Application update - %s", university)
	body := fmt.Sprintf("Hello %s,\n\nThe status of your application to %s has been updated to: %s.",
		name, university, statusLabel(string(status)))
	switch status {
	case domain.ApplicationStatusApproved:
		body += "\n\nCongratulations! You will receive further instructions shortly."
	case domain.ApplicationStatusRejected:
		body += "\n\nWe are sorry we could not offer you a place this time."
	}
	body += "\n\nThe Admissions Team"
	return s.sender.Send(ctx, email, name, subject, body)
}

func (s *emailService) SendDocumentValidated(ctx context.Context, email, name, documentType string, status domain.DocumentStatus, comment string) error {
	subject := fmt.Sprintf("Document %s: %s", statusLabel(string(status)), documentType)
	body := fmt.Sprintf("Hello %s,\n\nYour %s document has been %s.", name, documentType, statusLabel(string(status)))
	if comment != "" {
		body += fmt.Sprintf("\n\nReviewer comment: %s", comment)
	}
	if status == domain.DocumentStatusRejected {
		body += "\n\nPlease contact the admissions office to provide a replacement."
	}
	body += "\n\nThe Admissions Team"
	return s.sender.Send(ctx, email, name, subject, body)
}

func (s *emailService) SendMissingDocumentsReminder(ctx context.Context, email, name, university string, missing []string) error {
	subject := "Your application is missing documents"
	body := fmt.Sprintf("Hello %s,\n\nYour application to %s cannot be submitted yet. The following documents are still missing:\n\n- %s\n\nThe Admissions Team",
		name, university, strings.Join(missing, "\n- "))
	return s.sender.Send(ctx, email, name, subject, body)
}

// sendGridSender sends through the SendGrid v3 API.
type sendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridSender(apiKey, from, fromName string) MailSender {
	return &sendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (s *sendGridSender) Send(ctx context.Context, to, toName, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)

	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.from), subject, mail.NewEmail(toName, to), body, "")
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// logSender writes messages to the log instead of sending them. Used in
// development and when no provider is configured.
type logSender struct{}

func NewLogSender() MailSender {
	return logSender{}
}

func (logSender) Send(ctx context.Context, to, toName, subject, body string) error {
	// bodies can carry verification codes
	logger.InfoContext(ctx, "Email (log provider)", "to", to, "subject", subject)
	logger.DebugContext(ctx, "Email body (log provider)", "to", to, "body", body)
	return nil
}

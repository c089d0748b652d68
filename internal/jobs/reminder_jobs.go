package jobs

import (
	"context"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
)

// SendMissingDocumentReminders emails every student whose pending application
// still lacks required documents.
func (jr *JobRunner) SendMissingDocumentReminders() {
	jr.runWithRecovery("SendMissingDocumentReminders", func() {
		sent, err := jr.sendMissingDocumentReminders(context.Background())
		if err != nil {
			logger.Error("Missing document reminders aborted", "error", err)
			return
		}
		logger.Info("Sent missing document reminders", "count", sent)
	})
}

func (jr *JobRunner) sendMissingDocumentReminders(ctx context.Context) (int, error) {
	required, err := jr.repos.Required.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	if len(required) == 0 {
		return 0, nil
	}

	apps, err := jr.repos.Applications.ListByStatus(ctx, domain.ApplicationStatusPending)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range apps {
		app := &apps[i]

		docs, err := jr.repos.Documents.ListByApplication(ctx, app.ID)
		if err != nil {
			logger.Error("Failed to list documents", "applicationID", app.ID, "error", err)
			continue
		}
		missing := admission.MissingDocuments(app, docs, required)
		if len(missing) == 0 {
			continue
		}

		user, err := jr.repos.Users.GetByID(ctx, app.UserID)
		if err != nil {
			logger.Error("Failed to load applicant", "applicationID", app.ID, "userID", app.UserID, "error", err)
			continue
		}
		if !user.IsActive {
			continue
		}

		if err := jr.services.Email.SendMissingDocumentsReminder(ctx, user.Email, user.Name, app.University, missing); err != nil {
			logger.Error("Failed to send missing document reminder",
				"applicationID", app.ID,
				"userID", user.ID,
				"email", user.Email,
				"error", err)
			continue
		}

		count++
		logger.Debug("Sent missing document reminder",
			"applicationID", app.ID,
			"userID", user.ID,
			"missing", missing)
	}
	return count, nil
}

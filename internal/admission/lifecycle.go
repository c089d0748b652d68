package admission

import (
	"math"

	"admission-portal-backend/internal/domain"
)

// StatusBaseline is the progress a status guarantees on its own.
func StatusBaseline(app *domain.Application) int {
	if app == nil {
		return 0
	}
	switch app.Status {
	case domain.ApplicationStatusPending:
		return 20
	case domain.ApplicationStatusInProgress:
		return 60
	case domain.ApplicationStatusCompleted:
		return 80
	case domain.ApplicationStatusApproved, domain.ApplicationStatusRejected:
		return 100
	}
	return 0
}

// StepRatio returns round(100 * completed / total) and false when there are
// no steps.
func StepRatio(steps []domain.ApplicationStep) (int, bool) {
	if len(steps) == 0 {
		return 0, false
	}
	completed := 0
	for _, s := range steps {
		if s.Status == domain.StepStatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(steps)))), true
}

// ProgressPercent combines the status baseline with the step ratio. Taking
// the maximum keeps progress from regressing as steps are added.
func ProgressPercent(app *domain.Application, steps []domain.ApplicationStep) int {
	if app == nil {
		return 0
	}
	progress := StatusBaseline(app)
	if ratio, ok := StepRatio(steps); ok && ratio > progress {
		progress = ratio
	}
	return progress
}

// NewApplication returns an application in its initial state.
func NewApplication(userID int32, university, program, motivation string, priority domain.PriorityLevel) *domain.Application {
	if priority == "" {
		priority = domain.PriorityMedium
	}
	return &domain.Application{
		UserID:        userID,
		University:    university,
		Program:       program,
		Motivation:    motivation,
		PriorityLevel: priority,
		Status:        domain.ApplicationStatusPending,
	}
}

// Submit moves a pending application to in_progress. The application is left
// untouched when the transition is refused.
func Submit(app *domain.Application, docs []domain.Document, required []domain.RequiredDocument) error {
	if app == nil {
		return domain.ErrNotFound
	}
	if app.Status != domain.ApplicationStatusPending {
		return domain.ErrInvalidTransition
	}
	if missing := MissingDocuments(app, docs, required); len(missing) > 0 {
		return &domain.MissingDocumentsError{Missing: missing}
	}
	app.Status = domain.ApplicationStatusInProgress
	return nil
}

// SetStatus applies an admin status change. Any of the five statuses is
// accepted from any other.
func SetStatus(app *domain.Application, status domain.ApplicationStatus) (previous domain.ApplicationStatus, err error) {
	if app == nil {
		return "", domain.ErrNotFound
	}
	if _, err := domain.ParseApplicationStatus(string(status)); err != nil {
		verr := domain.NewValidationError()
		verr.Add("status", err.Error())
		return app.Status, verr
	}
	previous = app.Status
	app.Status = status
	return previous, nil
}

// Overview assembles the derived dashboard view.
func Overview(app *domain.Application, docs []domain.Document, steps []domain.ApplicationStep, required []domain.RequiredDocument) *domain.ApplicationOverview {
	if docs == nil {
		docs = []domain.Document{}
	}
	if steps == nil {
		steps = []domain.ApplicationStep{}
	}
	return &domain.ApplicationOverview{
		Application:      app,
		Documents:        docs,
		Steps:            steps,
		MissingDocuments: MissingDocuments(app, docs, required),
		CanSubmit:        CanSubmit(app, docs, required),
		Progress:         ProgressPercent(app, steps),
	}
}

package domain

import "fmt"

type ApplicationStatus string

const (
	ApplicationStatusPending    ApplicationStatus = "pending"
	ApplicationStatusInProgress ApplicationStatus = "in_progress"
	ApplicationStatusCompleted  ApplicationStatus = "completed"
	ApplicationStatusApproved   ApplicationStatus = "approved"
	ApplicationStatusRejected   ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every status in lifecycle order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusInProgress,
	ApplicationStatusCompleted,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	for _, st := range ApplicationStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTerminal reports whether no further lifecycle transition is expected.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
)

func ParsePriorityLevel(s string) (PriorityLevel, error) {
	switch PriorityLevel(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return PriorityLevel(s), nil
	}
	return "", fmt.Errorf("unknown priority level %q", s)
}

type Application struct {
	ID            int32             `json:"id"`
	UserID        int32             `json:"user_id"`
	University    string            `json:"university"`
	Program       string            `json:"program"`
	Motivation    string            `json:"motivation"`
	PriorityLevel PriorityLevel     `json:"priority_level"`
	Status        ApplicationStatus `json:"status"`
	SubmittedOn   *string           `json:"submitted_on,omitempty"`
	CreatedOn     string            `json:"created_on"`
	UpdatedOn     string            `json:"updated_on"`
}

type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
)

func ParseStepStatus(s string) (StepStatus, error) {
	switch StepStatus(s) {
	case StepStatusPending, StepStatusInProgress, StepStatusCompleted:
		return StepStatus(s), nil
	}
	return "", fmt.Errorf("unknown step status %q", s)
}

type ApplicationStep struct {
	ID            int32      `json:"id"`
	ApplicationID int32      `json:"application_id"`
	Name          string     `json:"name"`
	Position      int32      `json:"position"`
	Status        StepStatus `json:"status"`
	CompletedOn   *string    `json:"completed_on,omitempty"`
}

// ApplicationOverview is the derived view rendered on the student dashboard
// and the admin detail page.
type ApplicationOverview struct {
	Application      *Application      `json:"application"`
	Documents        []Document        `json:"documents"`
	Steps            []ApplicationStep `json:"steps"`
	MissingDocuments []string          `json:"missing_documents"`
	CanSubmit        bool              `json:"can_submit"`
	Progress         int               `json:"progress"`
}

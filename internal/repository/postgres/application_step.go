package postgres

import (
	"context"
	"database/sql"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/repository"
)

type applicationStepRepository struct {
	db *sql.DB
}

func NewApplicationStepRepository(db *sql.DB) repository.ApplicationStepRepository {
	return &applicationStepRepository{db: db}
}

func (r *applicationStepRepository) Create(ctx context.Context, s *domain.ApplicationStep) error {
	query := `INSERT INTO application_steps (application_id, name, position, status) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, s.ApplicationID, s.Name, s.Position, string(s.Status)).Scan(&s.ID)
	return mapError(err, nil)
}

func (r *applicationStepRepository) GetByID(ctx context.Context, id int32) (*domain.ApplicationStep, error) {
	s := &domain.ApplicationStep{}
	var status string
	var completedOn sql.NullTime
	query := `SELECT id, application_id, name, position, status, completed_on FROM application_steps WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.ApplicationID, &s.Name, &s.Position, &status, &completedOn)
	if err != nil {
		return nil, mapError(err, nil)
	}
	s.Status = domain.StepStatus(status)
	s.CompletedOn = formatNullDate(completedOn)
	return s, nil
}

func (r *applicationStepRepository) Update(ctx context.Context, s *domain.ApplicationStep) error {
	query := `UPDATE application_steps SET name=$1, position=$2, status=$3, completed_on=$4 WHERE id=$5`
	var completedOn interface{}
	if s.CompletedOn != nil {
		completedOn = *s.CompletedOn
	}
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Position, string(s.Status), completedOn, s.ID)
	if err != nil {
		return mapError(err, nil)
	}
	return requireRow(res)
}

func (r *applicationStepRepository) ListByApplication(ctx context.Context, applicationID int32) ([]domain.ApplicationStep, error) {
	query := `SELECT id, application_id, name, position, status, completed_on FROM application_steps WHERE application_id = $1 ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()

	var steps []domain.ApplicationStep
	for rows.Next() {
		var s domain.ApplicationStep
		var status string
		var completedOn sql.NullTime
		if err := rows.Scan(&s.ID, &s.ApplicationID, &s.Name, &s.Position, &status, &completedOn); err != nil {
			return nil, mapError(err, nil)
		}
		s.Status = domain.StepStatus(status)
		s.CompletedOn = formatNullDate(completedOn)
		steps = append(steps, s)
	}
	return steps, mapError(rows.Err(), nil)
}

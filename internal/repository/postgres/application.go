package postgres

import (
	"context"
	"database/sql"
	"time"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
)

var applicationConflicts = map[string]error{
	"applications_user_id_key": domain.ErrApplicationExists,
}

const applicationColumns = `id, user_id, university, program, COALESCE(motivation, ''), priority_level, status, submitted_on, created_on, updated_on`

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	a := &domain.Application{}
	var priority, status string
	var submittedOn sql.NullTime
	var createdOn, updatedOn time.Time
	if err := row.Scan(&a.ID, &a.UserID, &a.University, &a.Program, &a.Motivation, &priority, &status,
		&submittedOn, &createdOn, &updatedOn); err != nil {
		return nil, err
	}
	a.PriorityLevel = domain.PriorityLevel(priority)
	a.Status = domain.ApplicationStatus(status)
	a.SubmittedOn = formatNullDate(submittedOn)
	a.CreatedOn = formatDate(createdOn)
	a.UpdatedOn = formatDate(updatedOn)
	return a, nil
}

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application, steps []domain.ApplicationStep) error {
	logger.EnterMethod("applicationRepository.Create", "userID", a.UserID, "steps", len(steps))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err, nil)
	}
	defer tx.Rollback()

	query := `INSERT INTO applications (user_id, university, program, motivation, priority_level, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	var id int32
	logger.DatabaseCall("INSERT", "applications", "userID", a.UserID)
	err = tx.QueryRowContext(ctx, query, a.UserID, a.University, a.Program, a.Motivation,
		string(a.PriorityLevel), string(a.Status), now, now).Scan(&id)
	logger.DatabaseResult("INSERT", 1, err, "applicationID", id)
	if err != nil {
		err = mapError(err, applicationConflicts)
		logger.ExitMethodWithError("applicationRepository.Create", err, "userID", a.UserID)
		return err
	}

	stepQuery := `INSERT INTO application_steps (application_id, name, position, status) VALUES ($1, $2, $3, $4) RETURNING id`
	for i := range steps {
		st := &steps[i]
		if err := tx.QueryRowContext(ctx, stepQuery, id, st.Name, st.Position, string(st.Status)).Scan(&st.ID); err != nil {
			err = mapError(err, nil)
			logger.ExitMethodWithError("applicationRepository.Create", err, "userID", a.UserID, "step", st.Name)
			return err
		}
		st.ApplicationID = id
	}

	if err := tx.Commit(); err != nil {
		return mapError(err, nil)
	}
	a.ID = id
	a.CreatedOn = formatDate(now)
	a.UpdatedOn = a.CreatedOn

	logger.ExitMethod("applicationRepository.Create", "applicationID", a.ID)
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return a, nil
}

func (r *applicationRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 ORDER BY id DESC LIMIT 1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return a, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int32, status domain.ApplicationStatus) error {
	query := `UPDATE applications SET status=$1, updated_on=$2 WHERE id=$3`
	logger.DatabaseCall("UPDATE", "applications", "applicationID", id, "status", status)
	res, err := r.db.ExecContext(ctx, query, string(status), time.Now(), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "applicationID", id)
		return mapError(err, nil)
	}
	return requireRow(res)
}

func (r *applicationRepository) TransitionStatus(ctx context.Context, id int32, from, to domain.ApplicationStatus) (bool, error) {
	query := `UPDATE applications SET status=$1, submitted_on=COALESCE(submitted_on, $2), updated_on=$2 WHERE id=$3 AND status=$4`
	logger.DatabaseCall("UPDATE", "applications", "applicationID", id, "from", from, "to", to)
	res, err := r.db.ExecContext(ctx, query, string(to), time.Now(), id, string(from))
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "applicationID", id)
		return false, mapError(err, nil)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err, nil)
	}
	logger.DatabaseResult("UPDATE", n, nil, "applicationID", id)
	return n == 1, nil
}

func (r *applicationRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Application, int32, error) {
	limit, offset := pageOffset(page, pageSize)
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE ($1 = '' OR status = $1)
	          ORDER BY CASE priority_level WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_on
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, mapError(err, nil)
	}
	defer rows.Close()

	apps, err := collectApplications(rows)
	if err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM applications WHERE ($1 = '' OR status = $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, status).Scan(&count); err != nil {
		return nil, 0, mapError(err, nil)
	}
	return apps, count, nil
}

func (r *applicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE status = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *applicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int32, error) {
	query := `SELECT status, count(*) FROM applications GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()

	counts := make(map[domain.ApplicationStatus]int32, len(domain.ApplicationStatuses))
	for _, s := range domain.ApplicationStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status string
		var n int32
		if err := rows.Scan(&status, &n); err != nil {
			return nil, mapError(err, nil)
		}
		counts[domain.ApplicationStatus(status)] = n
	}
	return counts, mapError(rows.Err(), nil)
}

func collectApplications(rows *sql.Rows) ([]domain.Application, error) {
	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, mapError(err, nil)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, nil)
	}
	return apps, nil
}

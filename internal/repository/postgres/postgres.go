package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/repository"

	"github.com/lib/pq"
)

const dateLayout = "2006-01-02"

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ApplicationRepository
	repository.DocumentRepository
	repository.RequiredDocumentRepository
	repository.ApplicationStepRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                         db,
		UserRepository:             NewUserRepository(db),
		ApplicationRepository:      NewApplicationRepository(db),
		DocumentRepository:         NewDocumentRepository(db),
		RequiredDocumentRepository: NewRequiredDocumentRepository(db),
		ApplicationStepRepository:  NewApplicationStepRepository(db),
		NotificationRepository:     NewNotificationRepository(db),
	}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// mapError translates driver errors into the domain taxonomy. conflicts maps
// constraint names to the conflict error they stand for.
func mapError(err error, conflicts map[string]error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		if conflict, ok := conflicts[pqErr.Constraint]; ok {
			return conflict
		}
		return fmt.Errorf("%w: %s", domain.ErrStateConflict, pqErr.Message)
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatNullDate(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(dateLayout)
	return &s
}

// nullableString maps "" to NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func pageOffset(page, pageSize int32) (int32, int32) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}

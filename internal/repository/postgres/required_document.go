package postgres

import (
	"context"
	"database/sql"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/repository"
)

var requiredDocumentConflicts = map[string]error{
	"required_documents_document_type_key": domain.ErrStateConflict,
}

type requiredDocumentRepository struct {
	db *sql.DB
}

func NewRequiredDocumentRepository(db *sql.DB) repository.RequiredDocumentRepository {
	return &requiredDocumentRepository{db: db}
}

func (r *requiredDocumentRepository) Create(ctx context.Context, req *domain.RequiredDocument) error {
	query := `INSERT INTO required_documents (document_type, description, is_active) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, req.DocumentType, req.Description, req.IsActive).Scan(&req.ID)
	return mapError(err, requiredDocumentConflicts)
}

func (r *requiredDocumentRepository) GetByID(ctx context.Context, id int32) (*domain.RequiredDocument, error) {
	req := &domain.RequiredDocument{}
	query := `SELECT id, document_type, COALESCE(description, ''), is_active FROM required_documents WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&req.ID, &req.DocumentType, &req.Description, &req.IsActive)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return req, nil
}

func (r *requiredDocumentRepository) Update(ctx context.Context, req *domain.RequiredDocument) error {
	query := `UPDATE required_documents SET document_type=$1, description=$2, is_active=$3 WHERE id=$4`
	res, err := r.db.ExecContext(ctx, query, req.DocumentType, req.Description, req.IsActive, req.ID)
	if err != nil {
		return mapError(err, requiredDocumentConflicts)
	}
	return requireRow(res)
}

func (r *requiredDocumentRepository) List(ctx context.Context) ([]domain.RequiredDocument, error) {
	return r.list(ctx, `SELECT id, document_type, COALESCE(description, ''), is_active FROM required_documents ORDER BY id`)
}

func (r *requiredDocumentRepository) ListActive(ctx context.Context) ([]domain.RequiredDocument, error) {
	return r.list(ctx, `SELECT id, document_type, COALESCE(description, ''), is_active FROM required_documents WHERE is_active = TRUE ORDER BY id`)
}

func (r *requiredDocumentRepository) list(ctx context.Context, query string) ([]domain.RequiredDocument, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()

	var reqs []domain.RequiredDocument
	for rows.Next() {
		var req domain.RequiredDocument
		if err := rows.Scan(&req.ID, &req.DocumentType, &req.Description, &req.IsActive); err != nil {
			return nil, mapError(err, nil)
		}
		reqs = append(reqs, req)
	}
	return reqs, mapError(rows.Err(), nil)
}

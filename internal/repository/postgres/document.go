package postgres

import (
	"context"
	"database/sql"
	"time"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
)

var documentConflicts = map[string]error{
	"documents_application_id_document_type_key": domain.ErrDuplicateDocument,
}

const documentColumns = `id, application_id, document_type, file_path, COALESCE(original_name, ''), COALESCE(content_type, ''),
	file_size, status, COALESCE(admin_comment, ''), validated_by, validated_on, uploaded_on`

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	d := &domain.Document{}
	var status string
	var validatedBy sql.NullInt32
	var validatedOn sql.NullTime
	var uploadedOn time.Time
	if err := row.Scan(&d.ID, &d.ApplicationID, &d.DocumentType, &d.FilePath, &d.OriginalName, &d.ContentType,
		&d.FileSize, &status, &d.AdminComment, &validatedBy, &validatedOn, &uploadedOn); err != nil {
		return nil, err
	}
	d.Status = domain.DocumentStatus(status)
	if validatedBy.Valid {
		v := validatedBy.Int32
		d.ValidatedBy = &v
	}
	d.ValidatedOn = formatNullDate(validatedOn)
	d.UploadedOn = formatDate(uploadedOn)
	return d, nil
}

// Create inserts the document. The (application_id, document_type) unique
// constraint turns a concurrent duplicate upload into ErrDuplicateDocument.
func (r *documentRepository) Create(ctx context.Context, d *domain.Document) error {
	logger.EnterMethod("documentRepository.Create", "applicationID", d.ApplicationID, "documentType", d.DocumentType)

	query := `INSERT INTO documents (application_id, document_type, file_path, original_name, content_type, file_size, status, uploaded_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	logger.DatabaseCall("INSERT", "documents", "applicationID", d.ApplicationID)
	err := r.db.QueryRowContext(ctx, query, d.ApplicationID, d.DocumentType, d.FilePath, d.OriginalName,
		d.ContentType, d.FileSize, string(d.Status), now).Scan(&d.ID)
	logger.DatabaseResult("INSERT", 1, err, "documentID", d.ID)
	if err != nil {
		err = mapError(err, documentConflicts)
		logger.ExitMethodWithError("documentRepository.Create", err, "applicationID", d.ApplicationID)
		return err
	}
	d.UploadedOn = formatDate(now)

	logger.ExitMethod("documentRepository.Create", "documentID", d.ID)
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id int32) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return d, nil
}

func (r *documentRepository) ListByApplication(ctx context.Context, applicationID int32) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE application_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, mapError(err, nil)
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, nil)
	}
	return docs, nil
}

func (r *documentRepository) UpdateStatus(ctx context.Context, d *domain.Document) error {
	query := `UPDATE documents SET status=$1, admin_comment=$2, validated_by=$3, validated_on=$4 WHERE id=$5`
	var validatedOn interface{}
	if d.ValidatedOn != nil {
		validatedOn = *d.ValidatedOn
	}
	res, err := r.db.ExecContext(ctx, query, string(d.Status), d.AdminComment, d.ValidatedBy, validatedOn, d.ID)
	if err != nil {
		return mapError(err, nil)
	}
	return requireRow(res)
}

func (r *documentRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err, nil)
	}
	return requireRow(res)
}

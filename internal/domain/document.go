package domain

import "fmt"

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch DocumentStatus(s) {
	case DocumentStatusPending, DocumentStatusApproved, DocumentStatusRejected:
		return DocumentStatus(s), nil
	}
	return "", fmt.Errorf("unknown document status %q", s)
}

type Document struct {
	ID            int32          `json:"id"`
	ApplicationID int32          `json:"application_id"`
	DocumentType  string         `json:"document_type"`
	FilePath      string         `json:"file_path"` // reference returned by the file store
	OriginalName  string         `json:"original_name"`
	ContentType   string         `json:"content_type"`
	FileSize      int64          `json:"file_size"`
	Status        DocumentStatus `json:"status"`
	AdminComment  string         `json:"admin_comment,omitempty"`
	ValidatedBy   *int32         `json:"validated_by,omitempty"`
	ValidatedOn   *string        `json:"validated_on,omitempty"`
	UploadedOn    string         `json:"uploaded_on"`
}

// RequiredDocument is a registry entry. Only active entries take part in
// completeness checks.
type RequiredDocument struct {
	ID           int32  `json:"id"`
	DocumentType string `json:"document_type"`
	Description  string `json:"description"`
	IsActive     bool   `json:"is_active"`
}

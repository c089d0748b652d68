package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrStateConflict  = errors.New("state conflict")
	ErrStorageFailure = errors.New("storage failure")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)

var (
	ErrApplicationExists = fmt.Errorf("%w: an application already exists for this user", ErrStateConflict)
	ErrDuplicateDocument = fmt.Errorf("%w: a document of this type has already been uploaded", ErrStateConflict)
	ErrInvalidTransition = fmt.Errorf("%w: application cannot be submitted from its current status", ErrStateConflict)
	ErrApplicationLocked = fmt.Errorf("%w: application is no longer editable", ErrStateConflict)
	ErrDocumentLocked    = fmt.Errorf("%w: document has already been approved", ErrStateConflict)
	ErrEmailTaken        = fmt.Errorf("%w: email is already registered", ErrStateConflict)
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = msg
}

// OrNil returns nil when no field failed so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingDocumentsError rejects a submission that lacks required documents.
type MissingDocumentsError struct {
	Missing []string
}

func (e *MissingDocumentsError) Error() string {
	return fmt.Sprintf("missing required documents: %s", strings.Join(e.Missing, ", "))
}

func (e *MissingDocumentsError) Unwrap() error { return ErrStateConflict }

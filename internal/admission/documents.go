// Package admission holds the rules that derive application, document and
// profile state. Everything here is pure; persistence is the caller's job.
package admission

import "admission-portal-backend/internal/domain"

// ActiveRequiredTypes returns the document types of the active registry
// entries in registry order, without duplicates.
func ActiveRequiredTypes(required []domain.RequiredDocument) []string {
	seen := make(map[string]struct{}, len(required))
	types := make([]string, 0, len(required))
	for _, r := range required {
		if !r.IsActive {
			continue
		}
		if _, ok := seen[r.DocumentType]; ok {
			continue
		}
		seen[r.DocumentType] = struct{}{}
		types = append(types, r.DocumentType)
	}
	return types
}

// MissingDocuments returns the active required types that have no uploaded
// document. Document status is ignored: any upload satisfies the requirement.
// Types match case-sensitively. With no application every type is missing.
func MissingDocuments(app *domain.Application, docs []domain.Document, required []domain.RequiredDocument) []string {
	types := ActiveRequiredTypes(required)
	if app == nil {
		return types
	}

	present := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		present[d.DocumentType] = struct{}{}
	}

	missing := make([]string, 0)
	for _, t := range types {
		if _, ok := present[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

// CanSubmit reports whether the application holds every active required
// document. An empty registry is trivially satisfied; a nil application never is.
func CanSubmit(app *domain.Application, docs []domain.Document, required []domain.RequiredDocument) bool {
	if app == nil {
		return false
	}
	return len(MissingDocuments(app, docs, required)) == 0
}

// HasDocumentType is the fast-path duplicate check run before an upload. The
// storage layer's unique constraint remains the authority.
func HasDocumentType(docs []domain.Document, documentType string) bool {
	for _, d := range docs {
		if d.DocumentType == documentType {
			return true
		}
	}
	return false
}

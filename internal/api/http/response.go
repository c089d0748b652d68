package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"

	"github.com/gorilla/mux"
)

type errorResponse struct {
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields,omitempty"`
	Missing    []string          `json:"missing,omitempty"`
	RedirectTo string            `json:"redirect_to,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

type listResponse struct {
	Items      any   `json:"items"`
	TotalCount int32 `json:"total_count"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Fields = verr.Fields
	}
	var missing *domain.MissingDocumentsError
	if errors.As(err, &missing) {
		resp.Missing = missing.Missing
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Error = "internal server error"
	}
	writeJSON(w, status, resp)
}

// writeRedirect renders a gate decision as 403 with the route the client
// should send the user to.
func writeRedirect(w http.ResponseWriter, d admission.Decision) {
	writeJSON(w, http.StatusForbidden, errorResponse{
		Error:      "access restricted",
		RedirectTo: d.RedirectTo,
		Reason:     d.Reason,
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fieldError("body", "invalid JSON")
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || id <= 0 {
		return 0, fieldError(name, "must be a positive integer")
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		return def
	}
	return int32(n)
}

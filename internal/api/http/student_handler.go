package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/service"
)

// multipart overhead allowed on top of the configured file size limit
const uploadSlack = 1 << 20

type StudentHandler struct {
	profileSvc     service.ProfileService
	appSvc         service.ApplicationService
	maxUploadBytes int64
}

func NewStudentHandler(profileSvc service.ProfileService, appSvc service.ApplicationService, maxUploadBytes int64) *StudentHandler {
	return &StudentHandler{profileSvc: profileSvc, appSvc: appSvc, maxUploadBytes: maxUploadBytes}
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileSvc.GetProfile(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *StudentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.profileSvc.UpdateProfile(r.Context(), currentUser(r.Context()).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *StudentHandler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	var req pushTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.profileSvc.SetPushToken(r.Context(), currentUser(r.Context()).ID, req.Token); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudentHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req service.ApplicationInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.appSvc.CreateApplication(r.Context(), currentUser(r.Context()).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.appSvc.GetDashboard(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *StudentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	app, err := h.appSvc.Submit(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *StudentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+uploadSlack)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, fieldError("file", fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes)))
			return
		}
		writeError(w, r, fieldError("file", "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, fieldError("file", "file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			contentType = byExt
		}
	}
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = parsed
	}

	doc, err := h.appSvc.UploadDocument(r.Context(), currentUser(r.Context()).ID, service.UploadInput{
		DocumentType: r.FormValue("document_type"),
		OriginalName: header.Filename,
		ContentType:  contentType,
		Size:         header.Size,
		Content:      file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *StudentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.appSvc.DeleteDocument(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudentHandler) RequiredDocuments(w http.ResponseWriter, r *http.Request) {
	required, err := h.appSvc.ListRequiredDocuments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, required)
}

// DownloadDocument streams a stored document to its owner or an admin.
func (h *StudentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, content, err := h.appSvc.OpenDocument(r.Context(), currentUser(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer content.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName}))
	if doc.FileSize > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", doc.FileSize))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content); err != nil {
		logger.Error("Failed to stream document", "documentID", id, "error", err)
	}
}

func fieldError(field, msg string) error {
	verr := domain.NewValidationError()
	verr.Add(field, msg)
	return verr
}

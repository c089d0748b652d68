package http

import (
	"net/http"

	"admission-portal-backend/internal/service"
)

const defaultPageSize int32 = 20

type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

type statusRequest struct {
	Status string `json:"status"`
}

type documentStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	items, total, err := h.adminSvc.ListApplications(r.Context(), r.URL.Query().Get("status"),
		queryInt32(r, "page", 1), queryInt32(r, "page_size", defaultPageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []service.ApplicationSummary{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, TotalCount: total})
}

func (h *AdminHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := h.adminSvc.GetApplication(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *AdminHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.adminSvc.UpdateApplicationStatus(r.Context(), currentUser(r.Context()).ID, id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *AdminHandler) ValidateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req documentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.adminSvc.ValidateDocument(r.Context(), currentUser(r.Context()).ID, id, req.Status, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *AdminHandler) AddStep(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req service.StepInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	step, err := h.adminSvc.AddStep(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, step)
}

func (h *AdminHandler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req service.StepInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	step, err := h.adminSvc.UpdateStep(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

func (h *AdminHandler) ListRequiredDocuments(w http.ResponseWriter, r *http.Request) {
	required, err := h.adminSvc.ListRequiredDocuments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, required)
}

func (h *AdminHandler) CreateRequiredDocument(w http.ResponseWriter, r *http.Request) {
	var req service.RequiredDocumentInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rd, err := h.adminSvc.CreateRequiredDocument(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rd)
}

func (h *AdminHandler) UpdateRequiredDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req service.RequiredDocumentInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rd, err := h.adminSvc.UpdateRequiredDocument(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rd)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, total, err := h.adminSvc.ListUsers(r.Context(), r.URL.Query().Get("role"),
		queryInt32(r, "page", 1), queryInt32(r, "page_size", defaultPageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: users, TotalCount: total})
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req service.UserUpdateInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.adminSvc.UpdateUser(r.Context(), currentUser(r.Context()).ID, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.adminSvc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

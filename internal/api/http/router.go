package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers groups the endpoint handlers served by the router.
type Handlers struct {
	Auth          *AuthHandler
	Student       *StudentHandler
	Admin         *AdminHandler
	Notifications *NotificationHandler
}

// NewRouter registers every API route under the name the security config and
// the access gate refer to.
func NewRouter(h Handlers, auth *AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(RecoveryMiddleware, LoggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Handler)

	// Auth
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost).Name("register")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost).Name("login")
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost).Name("refresh-token")
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost).Name("logout")
	api.HandleFunc("/auth/change-password", h.Auth.ChangePassword).Methods(http.MethodPost).Name("change-password")

	// Two-factor
	api.HandleFunc("/2fa", h.Auth.TwoFactorStatus).Methods(http.MethodGet).Name("2fa-setup")
	api.HandleFunc("/2fa/enable", h.Auth.EnableTwoFactor).Methods(http.MethodPost).Name("2fa-enable")
	api.HandleFunc("/2fa/disable", h.Auth.DisableTwoFactor).Methods(http.MethodPost).Name("2fa-disable")
	api.HandleFunc("/2fa/reset", h.Auth.ResetTwoFactor).Methods(http.MethodPost).Name("2fa-reset")
	api.HandleFunc("/2fa/challenge", h.Auth.TwoFactorChallenge).Methods(http.MethodPost).Name("2fa-challenge")
	api.HandleFunc("/2fa/verify", h.Auth.TwoFactorVerify).Methods(http.MethodPost).Name("2fa-verify")

	// Student
	api.HandleFunc("/profile", h.Student.GetProfile).Methods(http.MethodGet).Name("profile-setup")
	api.HandleFunc("/profile", h.Student.UpdateProfile).Methods(http.MethodPut).Name("profile-update")
	api.HandleFunc("/profile/push-token", h.Student.SetPushToken).Methods(http.MethodPut).Name("push-token")
	api.HandleFunc("/application", h.Student.CreateApplication).Methods(http.MethodPost).Name("application-create")
	api.HandleFunc("/application", h.Student.Dashboard).Methods(http.MethodGet).Name("dashboard")
	api.HandleFunc("/application/submit", h.Student.Submit).Methods(http.MethodPost).Name("application-submit")
	api.HandleFunc("/application/documents", h.Student.UploadDocument).Methods(http.MethodPost).Name("document-upload")
	api.HandleFunc("/application/documents/{id}", h.Student.DeleteDocument).Methods(http.MethodDelete).Name("document-delete")
	api.HandleFunc("/required-documents", h.Student.RequiredDocuments).Methods(http.MethodGet).Name("required-documents")
	api.HandleFunc("/documents/{id}/download", h.Student.DownloadDocument).Methods(http.MethodGet).Name("document-download")

	// Notifications
	api.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet).Name("notifications")
	api.HandleFunc("/notifications/{id}/read", h.Notifications.MarkAsRead).Methods(http.MethodPost).Name("notification-read")

	// Admin
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/applications", h.Admin.ListApplications).Methods(http.MethodGet).Name("admin-applications")
	admin.HandleFunc("/applications/{id}", h.Admin.GetApplication).Methods(http.MethodGet).Name("admin-application-detail")
	admin.HandleFunc("/applications/{id}/status", h.Admin.UpdateApplicationStatus).Methods(http.MethodPut).Name("admin-application-status")
	admin.HandleFunc("/applications/{id}/steps", h.Admin.AddStep).Methods(http.MethodPost).Name("admin-step-create")
	admin.HandleFunc("/steps/{id}", h.Admin.UpdateStep).Methods(http.MethodPut).Name("admin-step-update")
	admin.HandleFunc("/documents/{id}/status", h.Admin.ValidateDocument).Methods(http.MethodPut).Name("admin-document-status")
	admin.HandleFunc("/required-documents", h.Admin.ListRequiredDocuments).Methods(http.MethodGet).Name("admin-required-documents")
	admin.HandleFunc("/required-documents", h.Admin.CreateRequiredDocument).Methods(http.MethodPost).Name("admin-required-document-create")
	admin.HandleFunc("/required-documents/{id}", h.Admin.UpdateRequiredDocument).Methods(http.MethodPut).Name("admin-required-document-update")
	admin.HandleFunc("/users", h.Admin.ListUsers).Methods(http.MethodGet).Name("admin-users")
	admin.HandleFunc("/users/{id}", h.Admin.UpdateUser).Methods(http.MethodPut).Name("admin-user-update")
	admin.HandleFunc("/stats", h.Admin.Stats).Methods(http.MethodGet).Name("admin-stats")

	return r
}

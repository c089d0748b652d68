package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"admission-portal-backend/internal/admission"
	apihttp "admission-portal-backend/internal/api/http"
	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/security"
	"admission-portal-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type routerFixture struct {
	tokens   security.TokenManager
	users    *MockUserRepo
	auth     *MockAuthService
	twoFA    *MockTwoFactorService
	profile  *MockProfileService
	apps     *MockApplicationService
	admin    *MockAdminService
	notes    *MockNotificationService
	router   http.Handler
	maxBytes int64
}

// profileRefresher evaluates completion in memory through the user repo mock.
type profileRefresher struct {
	users *MockUserRepo
}

func (p profileRefresher) RefreshProfileCompletion(ctx context.Context, user *domain.User) (bool, error) {
	completed, changed := admission.RefreshProfileCompletion(user)
	if changed {
		if err := p.users.UpdateProfileCompleted(ctx, user.ID, completed); err != nil {
			return false, err
		}
	}
	return completed, nil
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		tokens:   security.NewTokenManager(testSecret, time.Hour, 24*time.Hour),
		users:    new(MockUserRepo),
		auth:     new(MockAuthService),
		twoFA:    new(MockTwoFactorService),
		profile:  new(MockProfileService),
		apps:     new(MockApplicationService),
		admin:    new(MockAdminService),
		notes:    new(MockNotificationService),
		maxBytes: 1024,
	}
	gate := admission.NewGate(profileRefresher{users: f.users})
	f.router = apihttp.NewRouter(apihttp.Handlers{
		Auth:          apihttp.NewAuthHandler(f.auth, f.twoFA),
		Student:       apihttp.NewStudentHandler(f.profile, f.apps, f.maxBytes),
		Admin:         apihttp.NewAdminHandler(f.admin),
		Notifications: apihttp.NewNotificationHandler(f.notes),
	}, apihttp.NewAuthMiddleware(f.tokens, f.users, gate))
	return f
}

func (f *routerFixture) token(t *testing.T, user *domain.User, verified bool) string {
	t.Helper()
	tok, err := f.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role), verified)
	require.NoError(t, err)
	return tok
}

func (f *routerFixture) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func completeStudent() *domain.User {
	return &domain.User{
		ID: 7, Email: "ada@example.com", Name: "Ada", Role: domain.RoleStudent,
		Phone: "555-0100", Address: "1 Main St", DateOfBirth: "2000-01-01",
		ProfileCompleted: true, IsActive: true,
	}
}

func adminUser() *domain.User {
	return &domain.User{ID: 1, Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin, IsActive: true}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_LoginIsPublic(t *testing.T) {
	f := newRouterFixture(t)
	f.auth.On("Login", mock.Anything, "ada@example.com", "secret123").
		Return(&service.AuthTokens{AccessToken: "a", RefreshToken: "r"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"secret123"}`))
	rec := f.do(req, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a", decodeBody(t, rec)["access_token"])
	f.auth.AssertExpectations(t)
}

func TestRouter_LoginInvalidCredentials(t *testing.T) {
	f := newRouterFixture(t)
	f.auth.On("Login", mock.Anything, "ada@example.com", "wrong").Return(nil, service.ErrInvalidCredentials)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`))
	rec := f.do(req, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RegisterValidationError(t *testing.T) {
	f := newRouterFixture(t)
	verr := domain.NewValidationError()
	verr.Add("password", "must be at least 8 characters")
	f.auth.On("Register", mock.Anything, "Ada", "ada@example.com", "short").Return(nil, verr)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"short"}`))
	rec := f.do(req, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, map[string]any{"password": "must be at least 8 characters"}, body["fields"])
}

func TestRouter_MalformedJSON(t *testing.T) {
	f := newRouterFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{`))
	rec := f.do(req, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_MissingToken(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RefreshTokenRejectedAsAccess(t *testing.T) {
	f := newRouterFixture(t)
	refresh, err := f.tokens.GenerateRefreshToken(7, "ada@example.com", false)
	require.NoError(t, err)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_UnknownUser(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(nil, domain.ErrNotFound)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), f.token(t, user, false))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DashboardForCompleteStudent(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.apps.On("GetDashboard", mock.Anything, user.ID).Return(&domain.ApplicationOverview{
		Application: &domain.Application{ID: 3, Status: domain.ApplicationStatusPending},
		CanSubmit:   true,
		Progress:    20,
	}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["can_submit"])
	assert.Equal(t, float64(20), body["progress"])
}

func TestRouter_IncompleteProfileRedirectsToSetup(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	user.Phone = ""
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.users.On("UpdateProfileCompleted", mock.Anything, user.ID, false).Return(nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, admission.RouteProfileSetup, body["redirect_to"])
	assert.Equal(t, admission.ReasonProfileIncomplete, body["reason"])
	f.apps.AssertNotCalled(t, "GetDashboard", mock.Anything, mock.Anything)
}

func TestRouter_IncompleteProfileMayUpdateProfile(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	user.Address = ""
	user.ProfileCompleted = false
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	input := service.ProfileInput{Name: "Ada", Phone: "555-0100", Address: "1 Main St", DateOfBirth: "2000-01-01"}
	f.profile.On("UpdateProfile", mock.Anything, user.ID, input).Return(completeStudent(), nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile",
		strings.NewReader(`{"name":"Ada","phone":"555-0100","address":"1 Main St","date_of_birth":"2000-01-01"}`))
	rec := f.do(req, f.token(t, user, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	f.profile.AssertExpectations(t)
}

func TestRouter_TwoFactorRequired(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	user.TwoFactorEnabled = true
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, admission.Route2FAVerify, decodeBody(t, rec)["redirect_to"])
}

func TestRouter_TwoFactorVerifiedSessionPasses(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	user.TwoFactorEnabled = true
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.apps.On("GetDashboard", mock.Anything, user.ID).Return(&domain.ApplicationOverview{}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), f.token(t, user, true))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_TwoFactorVerifyBypassesGate(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	user.Phone = ""
	user.TwoFactorEnabled = true
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.twoFA.On("Verify", mock.Anything, user.ID, "123456").
		Return(&service.AuthTokens{AccessToken: "verified"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/2fa/verify", strings.NewReader(`{"code":"123456"}`))
	rec := f.do(req, f.token(t, user, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "verified", decodeBody(t, rec)["access_token"])
}

func TestRouter_InactiveAccountRedirectsToLogin(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	user.IsActive = false
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, admission.RouteLogin, body["redirect_to"])
	assert.Equal(t, admission.ReasonAccountInactive, body["reason"])
}

func TestRouter_StudentCannotReachAdmin(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.admin.AssertNotCalled(t, "Stats", mock.Anything)
}

func TestRouter_AdminCannotReachStudentRoutes(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminUser()
	f.users.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/application", nil), f.token(t, admin, false))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminStats(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminUser()
	f.users.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	f.admin.On("Stats", mock.Anything).Return(map[domain.ApplicationStatus]int32{
		domain.ApplicationStatusPending: 2, domain.ApplicationStatusApproved: 1,
	}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil), f.token(t, admin, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["pending"])
}

func TestRouter_AdminUpdateStatus(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminUser()
	f.users.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	f.admin.On("UpdateApplicationStatus", mock.Anything, admin.ID, int32(3), "approved").
		Return(&domain.Application{ID: 3, Status: domain.ApplicationStatusApproved}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/applications/3/status", strings.NewReader(`{"status":"approved"}`))
	rec := f.do(req, f.token(t, admin, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", decodeBody(t, rec)["status"])
}

func TestRouter_InvalidPathID(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminUser()
	f.users.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/applications/abc/status", strings.NewReader(`{"status":"approved"}`))
	rec := f.do(req, f.token(t, admin, false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["fields"], "id")
}

func TestRouter_SubmitMissingDocuments(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.apps.On("Submit", mock.Anything, user.ID).
		Return(nil, &domain.MissingDocumentsError{Missing: []string{"passport"}})

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/application/submit", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []any{"passport"}, decodeBody(t, rec)["missing"])
}

func TestRouter_StorageFailureIsGeneric(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.apps.On("Submit", mock.Anything, user.ID).Return(nil, domain.ErrStorageFailure)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/application/submit", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeBody(t, rec)["error"])
}

func multipartUpload(t *testing.T, documentType, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("document_type", documentType))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestRouter_UploadDocument(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	expected := service.UploadInput{
		DocumentType: "transcript",
		OriginalName: "grades.pdf",
		ContentType:  "application/pdf",
		Size:         5,
	}
	f.apps.On("UploadDocument", mock.Anything, user.ID, expected, "%PDF-").
		Return(&domain.Document{ID: 11, DocumentType: "transcript", Status: domain.DocumentStatusPending}, nil)

	body, ct := multipartUpload(t, "transcript", "grades.pdf", "application/pdf", []byte("%PDF-"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/application/documents", body)
	req.Header.Set("Content-Type", ct)
	rec := f.do(req, f.token(t, user, false))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(11), decodeBody(t, rec)["id"])
	f.apps.AssertExpectations(t)
}

func TestRouter_UploadWithoutFile(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("document_type", "transcript"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/application/documents", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := f.do(req, f.token(t, user, false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["fields"], "file")
}

func TestRouter_UploadDuplicate(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.apps.On("UploadDocument", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Return(nil, domain.ErrDuplicateDocument)

	body, ct := multipartUpload(t, "transcript", "grades.pdf", "application/pdf", []byte("%PDF-"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/application/documents", body)
	req.Header.Set("Content-Type", ct)
	rec := f.do(req, f.token(t, user, false))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_DownloadDocument(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminUser()
	f.users.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	doc := &domain.Document{ID: 5, OriginalName: "passport.png", ContentType: "image/png", FileSize: 4}
	f.apps.On("OpenDocument", mock.Anything, admin, int32(5)).
		Return(doc, io.NopCloser(strings.NewReader("\x89PNG")), nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents/5/download", nil), f.token(t, admin, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "passport.png")
	assert.Equal(t, "\x89PNG", rec.Body.String())
}

func TestRouter_DownloadForbidden(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.apps.On("OpenDocument", mock.Anything, user, int32(5)).Return(nil, nil, domain.ErrForbidden)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents/5/download", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_NotificationsPagination(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.notes.On("GetNotifications", mock.Anything, user.ID, int32(2), int32(5)).
		Return([]domain.Notification{{ID: 1, Title: "Application approved"}}, int32(6), nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/notifications?page=2&page_size=5", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(6), body["total_count"])
	assert.Len(t, body["items"], 1)
}

func TestRouter_LogoutAllowedWithIncompleteProfile(t *testing.T) {
	f := newRouterFixture(t)
	user := completeStudent()
	user.DateOfBirth = ""
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.users.On("UpdateProfileCompleted", mock.Anything, user.ID, false).Return(nil)
	f.auth.On("Logout", mock.Anything, user.ID).Return(nil)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), f.token(t, user, false))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

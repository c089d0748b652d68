package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/config"
	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
	"admission-portal-backend/internal/security"

	"github.com/gorilla/mux"
)

// AuthMiddleware authenticates requests and enforces the security level of
// the matched route, then runs the access gate.
type AuthMiddleware struct {
	tokens security.TokenManager
	users  repository.UserRepository
	gate   *admission.Gate
}

func NewAuthMiddleware(tokens security.TokenManager, users repository.UserRepository, gate *admission.Gate) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, gate: gate}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeName(r)
		level := config.GetSecurityLevel(route)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeError(w, r, errUnauthenticated("authorization token is not provided"))
			return
		}
		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			writeError(w, r, errUnauthenticated(err.Error()))
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeError(w, r, errUnauthenticated("access token required"))
			return
		}

		// The stored user is authoritative for role and status; the token
		// only identifies the user and carries the session's 2FA flag.
		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, r, errUnauthenticated("unknown user"))
				return
			}
			writeError(w, r, err)
			return
		}
		sess := admission.Session{User: user, TwoFactorVerified: claims.TwoFactorVerified}

		if err := checkRole(level, user); err != nil {
			writeError(w, r, err)
			return
		}

		if level == config.SecurityAuthenticated {
			if !user.IsActive {
				writeRedirect(w, admission.RedirectTo(admission.RouteLogin, admission.ReasonAccountInactive))
				return
			}
		} else {
			decision, err := m.gate.Authorize(r.Context(), sess, route)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !decision.Allowed {
				logger.Debug("Access gate redirect", "userID", user.ID, "route", route, "redirectTo", decision.RedirectTo, "reason", decision.Reason)
				writeRedirect(w, decision)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

func checkRole(level config.SecurityLevel, user *domain.User) error {
	switch level {
	case config.SecurityStudent:
		if !user.IsStudent() {
			return domain.ErrForbidden
		}
	case config.SecurityAdmin:
		if !user.IsAdmin() {
			return domain.ErrForbidden
		}
	}
	return nil
}

func extractToken(r *http.Request) (string, bool) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return token, token != ""
}

func errUnauthenticated(msg string) error {
	return &unauthenticatedError{msg: msg}
}

type unauthenticatedError struct{ msg string }

func (e *unauthenticatedError) Error() string { return e.msg }
func (e *unauthenticatedError) Unwrap() error { return domain.ErrUnauthorized }

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request with the matched route name.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Request(r.Method, routeName(r), r.URL.Path, rec.status, time.Since(start))
	})
}

// RecoveryMiddleware turns a handler panic into a 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic while serving request", "path", r.URL.Path, "panic", rec)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

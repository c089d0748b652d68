package http

import (
	"context"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/domain"
)

type contextKey int

const sessionKey contextKey = iota

func withSession(ctx context.Context, sess admission.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the session the auth middleware attached.
func SessionFromContext(ctx context.Context) (admission.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(admission.Session)
	return sess, ok && sess.User != nil
}

// currentUser returns the authenticated user or nil on public routes.
func currentUser(ctx context.Context) *domain.User {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return nil
	}
	return sess.User
}

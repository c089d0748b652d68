package admission

import (
	"context"
	"fmt"

	"admission-portal-backend/internal/domain"
)

// Route names referenced by the gate. The HTTP router registers routes under
// these names.
const (
	RouteLogin          = "login"
	RouteLogout         = "logout"
	RouteChangePassword = "change-password"
	RouteProfileSetup   = "profile-setup"
	RouteProfileUpdate  = "profile-update"
	Route2FASetup       = "2fa-setup"
	Route2FAEnable      = "2fa-enable"
	Route2FADisable     = "2fa-disable"
	Route2FAReset       = "2fa-reset"
	Route2FAVerify      = "2fa-verify"
)

const (
	ReasonAccountInactive   = "account_inactive"
	ReasonProfileIncomplete = "profile_incomplete"
	ReasonTwoFactorRequired = "two_factor_required"
)

var profileAllowList = map[string]struct{}{
	RouteProfileSetup:   {},
	RouteProfileUpdate:  {},
	RouteLogout:         {},
	RouteChangePassword: {},
}

var twoFactorAllowList = map[string]struct{}{
	Route2FASetup:       {},
	Route2FAEnable:      {},
	Route2FADisable:     {},
	Route2FAReset:       {},
	RouteChangePassword: {},
	RouteLogout:         {},
}

// Session is the request-scoped state the gate decides on.
type Session struct {
	User              *domain.User
	TwoFactorVerified bool
}

// Decision is either Allow or a redirect to a named route with a reason.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func RedirectTo(route, reason string) Decision {
	return Decision{RedirectTo: route, Reason: reason}
}

// ProfileEvaluator owns the cached profile_completed flag.
//
// RefreshProfileCompletion recomputes the flag from the user's fields,
// persists it when it changed and returns the new value. Callers must refresh
// before relying on IsProfileComplete.
type ProfileEvaluator interface {
	RefreshProfileCompletion(ctx context.Context, user *domain.User) (bool, error)
}

// Gate runs the ordered access checks for protected routes: account, then
// profile completeness, then two-factor. The first redirect wins.
type Gate struct {
	profiles ProfileEvaluator
}

func NewGate(profiles ProfileEvaluator) *Gate {
	return &Gate{profiles: profiles}
}

func (g *Gate) Authorize(ctx context.Context, sess Session, route string) (Decision, error) {
	if sess.User == nil {
		return Decision{}, domain.ErrUnauthorized
	}
	if !sess.User.IsActive {
		return RedirectTo(RouteLogin, ReasonAccountInactive), nil
	}

	switch sess.User.Role {
	case domain.RoleStudent:
		d, err := g.checkProfile(ctx, sess.User, route)
		if err != nil || !d.Allowed {
			return d, err
		}
	case domain.RoleAdmin:
		// admins are never held at profile setup
	default:
		return Decision{}, fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, sess.User.Role)
	}

	return CheckTwoFactor(sess, route), nil
}

func (g *Gate) checkProfile(ctx context.Context, user *domain.User, route string) (Decision, error) {
	if _, err := g.profiles.RefreshProfileCompletion(ctx, user); err != nil {
		return Decision{}, err
	}
	if IsProfileComplete(user) {
		return Allow(), nil
	}
	if _, ok := profileAllowList[route]; ok {
		return Allow(), nil
	}
	return RedirectTo(RouteProfileSetup, ReasonProfileIncomplete), nil
}

// CheckTwoFactor redirects users with 2FA enabled who have not verified in
// this session.
func CheckTwoFactor(sess Session, route string) Decision {
	if sess.User == nil || !sess.User.TwoFactorEnabled || sess.TwoFactorVerified {
		return Allow()
	}
	if _, ok := twoFactorAllowList[route]; ok {
		return Allow()
	}
	return RedirectTo(Route2FAVerify, ReasonTwoFactorRequired)
}

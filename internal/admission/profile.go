package admission

import "admission-portal-backend/internal/domain"

// ProfileFieldsFilled checks the mandatory personal fields.
func ProfileFieldsFilled(u *domain.User) bool {
	return u.Phone != "" && u.Address != "" && u.DateOfBirth != ""
}

// RefreshProfileCompletion recomputes the cached ProfileCompleted flag and
// reports whether it changed. It does not persist anything.
func RefreshProfileCompletion(u *domain.User) (completed, changed bool) {
	completed = ProfileFieldsFilled(u)
	changed = u.ProfileCompleted != completed
	u.ProfileCompleted = completed
	return completed, changed
}

// IsProfileComplete requires the fields and the stored flag to agree, so a
// stale flag left behind by a cleared field never grants access.
func IsProfileComplete(u *domain.User) bool {
	if u == nil {
		return false
	}
	return ProfileFieldsFilled(u) && u.ProfileCompleted
}

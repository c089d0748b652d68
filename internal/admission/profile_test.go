package admission_test

import (
	"testing"

	"admission-portal-backend/internal/admission"
	"admission-portal-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func completeUser() *domain.User {
	return &domain.User{
		ID:               1,
		Role:             domain.RoleStudent,
		IsActive:         true,
		Phone:            "+33123456789",
		Address:          "1 rue de la Paix",
		DateOfBirth:      "2001-04-12",
		ProfileCompleted: true,
	}
}

func TestIsProfileComplete(t *testing.T) {
	assert.True(t, admission.IsProfileComplete(completeUser()))
	assert.False(t, admission.IsProfileComplete(nil))

	mutations := map[string]func(u *domain.User){
		"Phone":       func(u *domain.User) { u.Phone = "" },
		"Address":     func(u *domain.User) { u.Address = "" },
		"DateOfBirth": func(u *domain.User) { u.DateOfBirth = "" },
		"StaleFlag":   func(u *domain.User) { u.ProfileCompleted = false },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			u := completeUser()
			mutate(u)
			assert.False(t, admission.IsProfileComplete(u))
		})
	}
}

func TestRefreshProfileCompletion(t *testing.T) {
	u := completeUser()
	u.ProfileCompleted = false

	completed, changed := admission.RefreshProfileCompletion(u)
	assert.True(t, completed)
	assert.True(t, changed)
	assert.True(t, u.ProfileCompleted)

	u.Address = ""
	completed, changed = admission.RefreshProfileCompletion(u)
	assert.False(t, completed)
	assert.True(t, changed)
	assert.False(t, admission.IsProfileComplete(u))

	_, changed = admission.RefreshProfileCompletion(u)
	assert.False(t, changed)
}

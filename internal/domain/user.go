package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID                   int32      `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Name                 string     `json:"name"`
	Role                 Role       `json:"role"`
	Phone                string     `json:"phone"`
	Address              string     `json:"address"`
	DateOfBirth          string     `json:"date_of_birth"` // YYYY-MM-DD, empty when unset
	ProfileCompleted     bool       `json:"profile_completed"`
	IsActive             bool       `json:"is_active"`
	TwoFactorEnabled     bool       `json:"two_factor_enabled"`
	TwoFactorCodeHash    string     `json:"-"`
	TwoFactorCodeExpires *time.Time `json:"-"`
	PushToken            string     `json:"-"`
	CreatedOn            string     `json:"created_on"`
	UpdatedOn            string     `json:"updated_on"`
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }

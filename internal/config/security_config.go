package config

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No authentication
	SecurityAuthenticated                      // Access token required, access gate skipped
	SecurityGated                              // Access token and access gate
	SecurityStudent                            // Gated, student role only
	SecurityAdmin                              // Gated, admin role only
)

// RouteSecurityConfig maps HTTP route names to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"register":      SecurityPublic,
	"login":         SecurityPublic,
	"refresh-token": SecurityPublic,

	// Two-factor verification happens before the gate lets anything else through
	"2fa-challenge": SecurityAuthenticated,
	"2fa-verify":    SecurityAuthenticated,

	// Account - Gated (allow-listed inside the gate where needed)
	"logout":            SecurityGated,
	"change-password":   SecurityGated,
	"2fa-setup":         SecurityGated,
	"2fa-enable":        SecurityGated,
	"2fa-disable":       SecurityGated,
	"2fa-reset":         SecurityGated,
	"notifications":     SecurityGated,
	"notification-read": SecurityGated,
	"document-download": SecurityGated,

	// Student
	"profile-setup":      SecurityStudent,
	"profile-update":     SecurityStudent,
	"push-token":         SecurityStudent,
	"application-create": SecurityStudent,
	"dashboard":          SecurityStudent,
	"application-submit": SecurityStudent,
	"document-upload":    SecurityStudent,
	"document-delete":    SecurityStudent,
	"required-documents": SecurityStudent,

	// Admin
	"admin-applications":             SecurityAdmin,
	"admin-application-detail":       SecurityAdmin,
	"admin-application-status":       SecurityAdmin,
	"admin-document-status":          SecurityAdmin,
	"admin-step-create":              SecurityAdmin,
	"admin-step-update":              SecurityAdmin,
	"admin-required-documents":       SecurityAdmin,
	"admin-required-document-create": SecurityAdmin,
	"admin-required-document-update": SecurityAdmin,
	"admin-users":                    SecurityAdmin,
	"admin-user-update":              SecurityAdmin,
	"admin-stats":                    SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}

// ABOUTME: Auth request/response models and the session record
// ABOUTME: Defines the session structure, roles, and login/logout API contracts

package models

import "time"

// Role is the single source of truth for authorization decisions.
// Boolean role checks are computed from it, never stored separately.
type Role string

const (
	RoleTenant     Role = "tenant"
	RoleSpecialist Role = "specialist"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Specialist capability tags. Meaningful only when Role is specialist.
const (
	PermBills       = "bills"
	PermPayments    = "payments"
	PermMaintenance = "maintenance"
	PermFeedback    = "feedback"
	PermNotices     = "notices"
)

// PropertyRef identifies a property a manager or specialist is scoped to.
type PropertyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session stores server-side authentication state for one signed-in user.
// Tokens are never exposed to the browser; only the opaque session ID is.
// A projection of this record (minus the live timer) is persisted under the
// tranquil-auth namespace after every mutation.
type Session struct {
	ID                    string        `json:"id"`
	Authenticated         bool          `json:"isAuthenticated"`
	UserID                string        `json:"userId"`
	Username              string        `json:"username"`
	Email                 string        `json:"email"`
	Phone                 string        `json:"phone"`
	Role                  Role          `json:"role"`
	SpecialistPermissions []string      `json:"specialistPermissions,omitempty"`
	AssignedProperties    []PropertyRef `json:"assignedProperties,omitempty"`
	AccessToken           string        `json:"accessToken"`
	RefreshToken          string        `json:"refreshToken"`
	TokenExpiry           time.Time     `json:"tokenExpirationTime"`
	EmailVerified         bool          `json:"emailVerified"`
	CreatedAt             time.Time     `json:"createdAt"`
}

// IsAdmin reports whether the session's role grants admin access.
func (s *Session) IsAdmin() bool { return s.Role == RoleAdmin || s.Role == RoleSuperAdmin }

// IsSuperAdmin reports whether the session belongs to the SaaS console owner.
func (s *Session) IsSuperAdmin() bool { return s.Role == RoleSuperAdmin }

// IsManager reports whether the session's role is manager.
func (s *Session) IsManager() bool { return s.Role == RoleManager }

// IsSpecialist reports whether the session's role is specialist.
func (s *Session) IsSpecialist() bool { return s.Role == RoleSpecialist }

// HasPermission reports whether the session may use a specialist capability.
// Managers and admins pass implicitly; specialists need the tag granted.
func (s *Session) HasPermission(tag string) bool {
	if s.IsManager() || s.IsAdmin() {
		return true
	}
	if !s.IsSpecialist() {
		return false
	}
	for _, p := range s.SpecialistPermissions {
		if p == tag {
			return true
		}
	}
	return false
}

// TokenPair is the access/refresh credential pair issued by the backend.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserProfile mirrors the backend's user record. Not authoritative; the
// backend owns the real profile.
type UserProfile struct {
	ID                    string        `json:"id"`
	Username              string        `json:"username"`
	Email                 string        `json:"email"`
	Phone                 string        `json:"phone"`
	Role                  Role          `json:"role"`
	EmailVerified         bool          `json:"emailVerified"`
	SpecialistPermissions []string      `json:"specialistPermissions,omitempty"`
	AssignedProperties    []PropertyRef `json:"assignedProperties,omitempty"`
	Tier                  string        `json:"tier,omitempty"`
}

// LoginData is the payload of a successful /auth/login or /auth/register
// envelope: the user profile plus the token pair.
type LoginData struct {
	User   UserProfile `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the result of a login attempt.
// RequiresVerification distinguishes an unverified account from a plain
// failure so the UI can route to the resend-verification flow.
type LoginResponse struct {
	Success              bool   `json:"success"`
	Username             string `json:"username,omitempty"`
	UserID               string `json:"userId,omitempty"`
	Role                 Role   `json:"role,omitempty"`
	RequiresVerification bool   `json:"requiresVerification,omitempty"`
	Message              string `json:"message,omitempty"`
}

// RegisterRequest carries a new account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProfileUpdate carries a partial profile mutation. Zero-valued fields are
// left untouched; tokens are never part of a profile update.
type ProfileUpdate struct {
	Username              string        `json:"username,omitempty"`
	Email                 string        `json:"email,omitempty"`
	Phone                 string        `json:"phone,omitempty"`
	Role                  Role          `json:"role,omitempty"`
	Tier                  string        `json:"tier,omitempty"`
	SpecialistPermissions []string      `json:"specialistPermissions,omitempty"`
	AssignedProperties    []PropertyRef `json:"assignedProperties,omitempty"`
}

// UserInfoResponse represents the current user's authentication state
type UserInfoResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	UserID        string `json:"userId,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          Role   `json:"role,omitempty"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
}

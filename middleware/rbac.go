// ABOUTME: Role and permission gating for proxied endpoints
// ABOUTME: Enforces the role hierarchy and specialist capability tags

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// roleHierarchy defines the privilege level for each role.
// Higher value means more privilege. Unknown roles resolve to 0, which
// denies access to any protected endpoint (fail-closed).
var roleHierarchy = map[models.Role]int{
	models.RoleTenant:     1,
	models.RoleSpecialist: 2,
	models.RoleManager:    3,
	models.RoleAdmin:      4,
	models.RoleSuperAdmin: 5,
}

// RequireRole returns middleware that enforces a minimum role.
// Panics if requiredRole is not in the hierarchy (catches wiring errors at
// startup). Anonymous requests get 401; an authenticated session below the
// required level gets 403.
func RequireRole(requiredRole models.Role) func(http.HandlerFunc) http.HandlerFunc {
	requiredLevel, ok := roleHierarchy[requiredRole]
	if !ok {
		panic(fmt.Sprintf("RequireRole: unknown role %q", requiredRole))
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r)
			if session == nil {
				writeJSONError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			if roleHierarchy[session.Role] < requiredLevel {
				slog.Warn("RBAC authorization denied",
					"path", r.URL.Path,
					"method", r.Method,
					"required_role", requiredRole,
					"user_role", session.Role,
					"username", session.Username,
				)
				writeJSONError(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next(w, r)
		}
	}
}

// RequirePermission returns middleware that enforces a specialist capability
// tag (bills, payments, maintenance, feedback, notices). Managers and admins
// pass implicitly; specialists need the tag granted on their profile.
func RequirePermission(tag string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r)
			if session == nil {
				writeJSONError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			if !session.HasPermission(tag) {
				slog.Warn("RBAC permission denied",
					"path", r.URL.Path,
					"method", r.Method,
					"required_permission", tag,
					"user_role", session.Role,
					"username", session.Username,
				)
				writeJSONError(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next(w, r)
		}
	}
}

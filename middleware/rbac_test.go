// ABOUTME: Tests for role and permission gating middleware
// ABOUTME: Verifies the role hierarchy and specialist capability tags

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

func requestWithSession(s *models.Session) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	if s == nil {
		return req
	}
	ctx := context.WithValue(req.Context(), sessionContextKey, s)
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		session    *models.Session
		required   models.Role
		wantStatus int
	}{
		{"anonymous denied", nil, models.RoleTenant, http.StatusUnauthorized},
		{"tenant below manager", &models.Session{Role: models.RoleTenant}, models.RoleManager, http.StatusForbidden},
		{"specialist below manager", &models.Session{Role: models.RoleSpecialist}, models.RoleManager, http.StatusForbidden},
		{"manager meets manager", &models.Session{Role: models.RoleManager}, models.RoleManager, http.StatusOK},
		{"admin exceeds manager", &models.Session{Role: models.RoleAdmin}, models.RoleManager, http.StatusOK},
		{"admin below superadmin", &models.Session{Role: models.RoleAdmin}, models.RoleSuperAdmin, http.StatusForbidden},
		{"superadmin meets superadmin", &models.Session{Role: models.RoleSuperAdmin}, models.RoleSuperAdmin, http.StatusOK},
		{"unknown role fails closed", &models.Session{Role: "intruder"}, models.RoleTenant, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.required)(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			handler(rec, requestWithSession(tt.session))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_UnknownRequiredRolePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown required role")
		}
	}()
	RequireRole("bogus")
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		session    *models.Session
		tag        string
		wantStatus int
	}{
		{"anonymous denied", nil, models.PermBills, http.StatusUnauthorized},
		{"tenant denied", &models.Session{Role: models.RoleTenant}, models.PermBills, http.StatusForbidden},
		{
			"specialist with tag",
			&models.Session{Role: models.RoleSpecialist, SpecialistPermissions: []string{models.PermBills}},
			models.PermBills,
			http.StatusOK,
		},
		{
			"specialist without tag",
			&models.Session{Role: models.RoleSpecialist, SpecialistPermissions: []string{models.PermNotices}},
			models.PermBills,
			http.StatusForbidden,
		},
		{"manager passes implicitly", &models.Session{Role: models.RoleManager}, models.PermMaintenance, http.StatusOK},
		{"admin passes implicitly", &models.Session{Role: models.RoleAdmin}, models.PermPayments, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequirePermission(tt.tag)(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			handler(rec, requestWithSession(tt.session))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Weaves auth, RBAC, and rate limits around each handler

package handlers

import (
	"net/http"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/middleware"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Fully wrapped handler function
}

// RouteMiddleware carries the cross-cutting middleware the route table weaves
// in per endpoint. Global middleware (logging, CORS, CSRF) stays in main.
type RouteMiddleware struct {
	Authn        func(http.HandlerFunc) http.HandlerFunc // session authentication
	LimitAuth    func(http.HandlerFunc) http.HandlerFunc // login/register/recovery limiter
	LimitRefresh func(http.HandlerFunc) http.HandlerFunc // manual refresh limiter
	LimitWrite   func(http.HandlerFunc) http.HandlerFunc // mutation limiter
}

// Routes returns all API routes for registration, each handler wrapped with
// its authentication, role, and rate-limit requirements. Reads are open to
// any authenticated session (the backend scopes data per caller); mutations
// are gated by role or specialist capability at the gateway.
func (h *Handler) Routes(mw RouteMiddleware) []Route {
	chain := middleware.Chain
	manager := middleware.RequireRole(models.RoleManager)
	admin := middleware.RequireRole(models.RoleAdmin)
	superadmin := middleware.RequireRole(models.RoleSuperAdmin)

	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// Auth surface
		{Method: http.MethodPost, Path: "/api/v1/auth/login", Handler: chain(h.Login, mw.LimitAuth)},
		{Method: http.MethodPost, Path: "/api/v1/auth/register", Handler: chain(h.Register, mw.LimitAuth)},
		{Method: http.MethodPost, Path: "/api/v1/auth/reset-request", Handler: chain(h.ResetRequest, mw.LimitAuth)},
		{Method: http.MethodPost, Path: "/api/v1/auth/reset-password", Handler: chain(h.ResetPassword, mw.LimitAuth)},
		{Method: http.MethodPost, Path: "/api/v1/auth/verify-email", Handler: chain(h.VerifyEmail, mw.LimitAuth)},
		{Method: http.MethodPost, Path: "/api/v1/auth/resend-verification", Handler: chain(h.ResendVerification, mw.LimitAuth)},
		{Method: http.MethodGet, Path: "/api/v1/auth/me", Handler: h.Me},
		{Method: http.MethodPost, Path: "/api/v1/auth/logout", Handler: h.Logout},
		{Method: http.MethodPost, Path: "/api/v1/auth/refresh", Handler: chain(h.Refresh, mw.LimitRefresh)},
		{Method: http.MethodPatch, Path: "/api/v1/auth/profile", Handler: chain(h.UpdateProfile, mw.Authn)},
		{Method: http.MethodDelete, Path: "/api/v1/auth/account", Handler: chain(h.DeleteAccount, mw.Authn)},

		// Aggregated dashboard
		{Method: http.MethodGet, Path: "/api/v1/dashboard", Handler: chain(h.Dashboard, mw.Authn)},

		// Properties
		{Method: http.MethodGet, Path: "/api/v1/properties", Handler: chain(h.Proxy, mw.Authn)},
		{Method: http.MethodPost, Path: "/api/v1/properties", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn, manager)},
		{Method: http.MethodGet, Path: "/api/v1/properties/{id}", Handler: chain(h.ProxyByID, mw.Authn)},
		{Method: http.MethodPatch, Path: "/api/v1/properties/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, manager)},
		{Method: http.MethodDelete, Path: "/api/v1/properties/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, manager)},

		// Units
		{Method: http.MethodGet, Path: "/api/v1/units", Handler: chain(h.Proxy, mw.Authn)},
		{Method: http.MethodPost, Path: "/api/v1/units", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn, manager)},
		{Method: http.MethodGet, Path: "/api/v1/units/{id}", Handler: chain(h.ProxyByID, mw.Authn)},
		{Method: http.MethodPatch, Path: "/api/v1/units/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, manager)},
		{Method: http.MethodDelete, Path: "/api/v1/units/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, manager)},

		// Tenants (records carry PII, so even reads need manager)
		{Method: http.MethodGet, Path: "/api/v1/tenants", Handler: chain(h.Proxy, mw.Authn, manager)},
		{Method: http.MethodPost, Path: "/api/v1/tenants", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn, manager)},
		{Method: http.MethodGet, Path: "/api/v1/tenants/{id}", Handler: chain(h.ProxyByID, mw.Authn, manager)},
		{Method: http.MethodPatch, Path: "/api/v1/tenants/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, manager)},
		{Method: http.MethodDelete, Path: "/api/v1/tenants/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, manager)},

		// Bills
		{Method: http.MethodGet, Path: "/api/v1/bills", Handler: chain(h.Proxy, mw.Authn)},
		{Method: http.MethodPost, Path: "/api/v1/bills", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn, middleware.RequirePermission(models.PermBills))},
		{Method: http.MethodPost, Path: "/api/v1/bills/preview", Handler: chain(h.BillPreview, mw.Authn, middleware.RequirePermission(models.PermBills))},
		{Method: http.MethodGet, Path: "/api/v1/bills/{id}", Handler: chain(h.ProxyByID, mw.Authn)},
		{Method: http.MethodPatch, Path: "/api/v1/bills/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, middleware.RequirePermission(models.PermBills))},
		{Method: http.MethodDelete, Path: "/api/v1/bills/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, middleware.RequirePermission(models.PermBills))},

		// Payments
		{Method: http.MethodGet, Path: "/api/v1/payments", Handler: chain(h.Proxy, mw.Authn)},
		{Method: http.MethodPost, Path: "/api/v1/payments", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn, middleware.RequirePermission(models.PermPayments))},
		{Method: http.MethodGet, Path: "/api/v1/payments/{id}", Handler: chain(h.ProxyByID, mw.Authn)},

		// Maintenance (tenants file requests; specialists work them)
		{Method: http.MethodGet, Path: "/api/v1/maintenance", Handler: chain(h.Proxy, mw.Authn)},
		{Method: http.MethodPost, Path: "/api/v1/maintenance", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn)},
		{Method: http.MethodGet, Path: "/api/v1/maintenance/{id}", Handler: chain(h.ProxyByID, mw.Authn)},
		{Method: http.MethodPatch, Path: "/api/v1/maintenance/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, middleware.RequirePermission(models.PermMaintenance))},
		{Method: http.MethodDelete, Path: "/api/v1/maintenance/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, manager)},

		// Announcements
		{Method: http.MethodGet, Path: "/api/v1/announcements", Handler: chain(h.Proxy, mw.Authn)},
		{Method: http.MethodPost, Path: "/api/v1/announcements", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn, middleware.RequirePermission(models.PermNotices))},
		{Method: http.MethodPatch, Path: "/api/v1/announcements/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, middleware.RequirePermission(models.PermNotices))},
		{Method: http.MethodDelete, Path: "/api/v1/announcements/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, middleware.RequirePermission(models.PermNotices))},

		// App versions
		{Method: http.MethodGet, Path: "/api/v1/versions", Handler: chain(h.Proxy, mw.Authn)},
		{Method: http.MethodGet, Path: "/api/v1/versions/latest", Handler: chain(h.LatestVersions, mw.Authn)},
		{Method: http.MethodPost, Path: "/api/v1/versions", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn, admin)},
		{Method: http.MethodDelete, Path: "/api/v1/versions/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, admin)},

		// SaaS admin console
		{Method: http.MethodGet, Path: "/api/v1/admin/users", Handler: chain(h.Proxy, mw.Authn, admin)},
		{Method: http.MethodGet, Path: "/api/v1/admin/users/{id}", Handler: chain(h.ProxyByID, mw.Authn, admin)},
		{Method: http.MethodPatch, Path: "/api/v1/admin/users/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, admin)},
		{Method: http.MethodDelete, Path: "/api/v1/admin/users/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, superadmin)},
		{Method: http.MethodGet, Path: "/api/v1/admin/templates", Handler: chain(h.Proxy, mw.Authn, admin)},
		{Method: http.MethodPost, Path: "/api/v1/admin/templates", Handler: chain(h.Proxy, mw.LimitWrite, mw.Authn, admin)},
		{Method: http.MethodPatch, Path: "/api/v1/admin/templates/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, admin)},
		{Method: http.MethodDelete, Path: "/api/v1/admin/templates/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, admin)},
		{Method: http.MethodGet, Path: "/api/v1/admin/subscriptions", Handler: chain(h.Proxy, mw.Authn, superadmin)},
		{Method: http.MethodPatch, Path: "/api/v1/admin/subscriptions/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, superadmin)},
		{Method: http.MethodGet, Path: "/api/v1/admin/tickets", Handler: chain(h.Proxy, mw.Authn, admin)},
		{Method: http.MethodPatch, Path: "/api/v1/admin/tickets/{id}", Handler: chain(h.ProxyByID, mw.LimitWrite, mw.Authn, admin)},
		{Method: http.MethodGet, Path: "/api/v1/admin/analytics", Handler: chain(h.AdminAnalytics, mw.Authn, admin)},
	}
}

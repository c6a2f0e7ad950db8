// ABOUTME: Authenticated proxy handlers for the upstream CRUD surfaces
// ABOUTME: Attaches the session's bearer token and streams responses through

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/middleware"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/services"
)

// apiPrefix is stripped from incoming paths before forwarding: the gateway's
// /api/v1/bills/{id} maps to the backend's /bills/{id}.
const apiPrefix = "/api/v1"

// Proxy forwards a collection request to the same path upstream with the
// session's token attached. Method, query string, and body pass through.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r)
	if sess == nil {
		h.writeError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	upstreamPath := strings.TrimPrefix(r.URL.Path, apiPrefix)
	slog.Debug("Proxying request", "method", r.Method, "path", upstreamPath, "user", sess.UserID)

	h.api.Forward(w, r, upstreamPath, sess.AccessToken)
}

// ProxyByID forwards a single-resource request after validating the {id}
// path segment, so nothing traversal-shaped reaches the upstream URL.
func (h *Handler) ProxyByID(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r)
	if sess == nil {
		h.writeError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if err := services.ValidateID(id); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	upstreamPath := strings.TrimPrefix(r.URL.Path, apiPrefix)
	slog.Debug("Proxying request", "method", r.Method, "path", upstreamPath, "user", sess.UserID)

	h.api.Forward(w, r, upstreamPath, sess.AccessToken)
}

// ABOUTME: App update-check endpoint
// ABOUTME: Returns the newest published release per platform

package handlers

import (
	"net/http"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/middleware"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// LatestVersions returns the most recent release for each platform, keyed by
// platform name. The mobile apps poll this to decide whether to prompt (or
// force, when the release is mandatory) an update.
func (h *Handler) LatestVersions(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r)
	if sess == nil {
		h.writeError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	versions, err := h.api.ListAppVersions(r.Context(), sess.AccessToken)
	if err != nil {
		h.writeUpstreamError(w, err, "Failed to load versions")
		return
	}

	latest := make(map[string]models.AppVersion)
	for _, v := range versions {
		cur, ok := latest[v.Platform]
		if !ok || v.ReleasedAt.After(cur.ReleasedAt) {
			latest[v.Platform] = v
		}
	}

	h.writeJSON(w, http.StatusOK, latest)
}

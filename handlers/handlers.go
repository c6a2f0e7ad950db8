// ABOUTME: HTTP handlers for the Tranquil dashboard gateway
// ABOUTME: Health, aggregated dashboard, and the shared response helpers

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/cache"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/config"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/middleware"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/services"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/session"
)

type Handler struct {
	cfg      *config.Config
	cache    *cache.Cache
	api      *services.APIClient
	sessions *session.Registry
}

func NewHandler(cfg *config.Config, cache *cache.Cache, api *services.APIClient, sessions *session.Registry) *Handler {
	return &Handler{
		cfg:      cfg,
		cache:    cache,
		api:      api,
		sessions: sessions,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	store := "file"
	if h.cfg != nil && h.cfg.RedisConfigured() {
		store = "redis"
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"upstream":        h.cfg.APIBaseURL,
		"session_store":   store,
		"active_sessions": h.sessions.Len(),
	})
}

// Dashboard fans out to the upstream list endpoints concurrently and returns
// the aggregated counts. Results are cached per user for a short TTL so a
// dashboard poll loop does not hammer the backend.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r)
	if sess == nil {
		h.writeError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	cacheKey := "dashboard:" + sess.UserID
	if cached, found := h.cache.Get(cacheKey); found {
		slog.Debug("Dashboard cache hit", "user", sess.UserID)
		summary := cached.(models.DashboardSummary)
		summary.Metadata.Cached = true
		h.writeJSON(w, http.StatusOK, summary)
		return
	}

	token := sess.AccessToken

	var (
		properties    []models.Property
		units         []models.Unit
		tenants       []models.Tenant
		maintenance   []models.MaintenanceRequest
		unpaid        []models.Bill
		announcements []models.Announcement
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		properties, err = h.api.ListProperties(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		units, err = h.api.ListUnits(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		tenants, err = h.api.ListTenants(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		maintenance, err = h.api.ListMaintenance(ctx, token, "open")
		return err
	})
	g.Go(func() error {
		var err error
		unpaid, err = h.api.ListBills(ctx, token, "pending")
		return err
	})
	g.Go(func() error {
		var err error
		announcements, err = h.api.ListAnnouncements(ctx, token)
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("Dashboard aggregation failed", "user", sess.UserID, "error", err)
		h.writeError(w, "Failed to load dashboard data", http.StatusBadGateway)
		return
	}

	occupied := 0
	for _, u := range units {
		if u.Occupied {
			occupied++
		}
	}
	occupancy := 0.0
	if len(units) > 0 {
		occupancy = float64(occupied) / float64(len(units)) * 100
	}

	summary := models.DashboardSummary{
		Properties:      len(properties),
		Units:           len(units),
		OccupiedUnits:   occupied,
		OccupancyRate:   occupancy,
		Tenants:         len(tenants),
		OpenMaintenance: len(maintenance),
		UnpaidBills:     len(unpaid),
		Announcements:   len(announcements),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	}

	h.cache.SetWithTTL(cacheKey, summary, time.Duration(h.cfg.DashboardTTL)*time.Second)

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// ABOUTME: SaaS console analytics aggregation endpoint
// ABOUTME: Fans out to the admin list endpoints and computes headline metrics

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/middleware"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// analyticsCacheKey is shared by all console admins: the metrics are global,
// not per caller.
const analyticsCacheKey = "analytics:console"

// AdminAnalytics aggregates the console's headline metrics: account count,
// active subscriptions, open tickets, and revenue collected this month.
func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r)
	if sess == nil {
		h.writeError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if cached, found := h.cache.Get(analyticsCacheKey); found {
		slog.Debug("Analytics cache hit", "user", sess.UserID)
		h.writeJSON(w, http.StatusOK, cached.(models.AnalyticsSummary))
		return
	}

	token := sess.AccessToken

	var (
		users    []models.AdminUser
		subs     []models.Subscription
		tickets  []models.SupportTicket
		payments []models.Payment
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		users, err = h.api.ListAdminUsers(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = h.api.ListSubscriptions(ctx, token, "active")
		return err
	})
	g.Go(func() error {
		var err error
		tickets, err = h.api.ListSupportTickets(ctx, token, "open")
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = h.api.ListPayments(ctx, token, "")
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("Analytics aggregation failed", "user", sess.UserID, "error", err)
		h.writeError(w, "Failed to load analytics data", http.StatusBadGateway)
		return
	}

	now := time.Now()
	revenue := 0.0
	for _, p := range payments {
		if p.PaidAt.Year() == now.Year() && p.PaidAt.Month() == now.Month() {
			revenue += p.Amount
		}
	}

	summary := models.AnalyticsSummary{
		TotalUsers:          len(users),
		ActiveSubscriptions: len(subs),
		OpenTickets:         len(tickets),
		MonthlyRevenue:      revenue,
		GeneratedAt:         now,
	}

	h.cache.SetWithTTL(analyticsCacheKey, summary, time.Duration(h.cfg.DashboardTTL)*time.Second)

	h.writeJSON(w, http.StatusOK, summary)
}

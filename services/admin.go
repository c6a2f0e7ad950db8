// ABOUTME: SaaS admin console endpoints of the upstream Tranquil API
// ABOUTME: Typed fetchers backing the console analytics aggregation

package services

import (
	"context"
	"net/url"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// ListAdminUsers fetches every account row in the console.
func (c *APIClient) ListAdminUsers(ctx context.Context, token string) ([]models.AdminUser, error) {
	var users []models.AdminUser
	if err := c.get(ctx, "/admin/users", token, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListSubscriptions fetches subscriptions, optionally filtered by status
// (active, past_due, cancelled).
func (c *APIClient) ListSubscriptions(ctx context.Context, token, status string) ([]models.Subscription, error) {
	path := "/admin/subscriptions"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var subs []models.Subscription
	if err := c.get(ctx, path, token, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ListSupportTickets fetches support tickets, optionally filtered by status
// (open, pending, closed).
func (c *APIClient) ListSupportTickets(ctx context.Context, token, status string) ([]models.SupportTicket, error) {
	path := "/admin/tickets"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var tickets []models.SupportTicket
	if err := c.get(ctx, path, token, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ABOUTME: Billing list endpoints of the upstream Tranquil API
// ABOUTME: Typed fetchers for bills and payments with status filtering

package services

import (
	"context"
	"net/url"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// ListBills fetches bills, optionally filtered by status (pending, partial,
// paid, overdue). An empty status returns everything.
func (c *APIClient) ListBills(ctx context.Context, token, status string) ([]models.Bill, error) {
	path := "/bills"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var bills []models.Bill
	if err := c.get(ctx, path, token, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// ListPayments fetches payments, optionally scoped to one bill.
func (c *APIClient) ListPayments(ctx context.Context, token, billID string) ([]models.Payment, error) {
	path := "/payments"
	if billID != "" {
		path += "?billId=" + url.QueryEscape(billID)
	}
	var payments []models.Payment
	if err := c.get(ctx, path, token, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

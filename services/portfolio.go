// ABOUTME: Portfolio list endpoints of the upstream Tranquil API
// ABOUTME: Typed fetchers for properties, units, and tenants

package services

import (
	"context"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// ListProperties fetches all properties visible to the caller.
func (c *APIClient) ListProperties(ctx context.Context, token string) ([]models.Property, error) {
	var properties []models.Property
	if err := c.get(ctx, "/properties", token, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// ListUnits fetches all units visible to the caller.
func (c *APIClient) ListUnits(ctx context.Context, token string) ([]models.Unit, error) {
	var units []models.Unit
	if err := c.get(ctx, "/units", token, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// ListTenants fetches all tenants visible to the caller.
func (c *APIClient) ListTenants(ctx context.Context, token string) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := c.get(ctx, "/tenants", token, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

// ABOUTME: Operations endpoints of the upstream Tranquil API
// ABOUTME: Maintenance requests, announcements, and app version releases

package services

import (
	"context"
	"net/url"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// ListMaintenance fetches maintenance requests, optionally filtered by status
// (open, in_progress, resolved, closed).
func (c *APIClient) ListMaintenance(ctx context.Context, token, status string) ([]models.MaintenanceRequest, error) {
	path := "/maintenance"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var requests []models.MaintenanceRequest
	if err := c.get(ctx, path, token, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ListAnnouncements fetches property-wide notices visible to the caller.
func (c *APIClient) ListAnnouncements(ctx context.Context, token string) ([]models.Announcement, error) {
	var announcements []models.Announcement
	if err := c.get(ctx, "/announcements", token, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// ListAppVersions fetches published release records.
func (c *APIClient) ListAppVersions(ctx context.Context, token string) ([]models.AppVersion, error) {
	var versions []models.AppVersion
	if err := c.get(ctx, "/versions", token, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

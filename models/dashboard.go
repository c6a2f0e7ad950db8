// ABOUTME: Aggregated dashboard summary returned by the gateway
// ABOUTME: Counts fetched concurrently from the upstream list endpoints

package models

import "time"

// DashboardSummary is the headline view the dashboard home screen renders.
type DashboardSummary struct {
	Properties      int      `json:"properties"`
	Units           int      `json:"units"`
	OccupiedUnits   int      `json:"occupiedUnits"`
	OccupancyRate   float64  `json:"occupancyRate"`
	Tenants         int      `json:"tenants"`
	OpenMaintenance int      `json:"openMaintenance"`
	UnpaidBills     int      `json:"unpaidBills"`
	Announcements   int      `json:"announcements"`
	Metadata        Metadata `json:"metadata"`
}

// Metadata describes freshness of an aggregated response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached"`
}

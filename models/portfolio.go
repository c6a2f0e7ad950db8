// ABOUTME: Property, unit, and tenant models mirroring backend records
// ABOUTME: Read-side shapes only; the backend owns the business rules

package models

import "time"

// Property is a managed building or estate.
type Property struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	ManagerID string    `json:"managerId,omitempty"`
	UnitCount int       `json:"unitCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Unit is a rentable unit within a property.
type Unit struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"propertyId"`
	Label      string  `json:"label"`
	Bedrooms   int     `json:"bedrooms"`
	RentAmount float64 `json:"rentAmount"`
	Occupied   bool    `json:"occupied"`
	TenantID   string  `json:"tenantId,omitempty"`
}

// Tenant is a renter attached to a unit.
type Tenant struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	PropertyID string    `json:"propertyId"`
	UnitID     string    `json:"unitId"`
	MovedInAt  time.Time `json:"movedInAt"`
	Active     bool      `json:"active"`
}

// MaintenanceRequest is a tenant-reported issue routed to specialists.
type MaintenanceRequest struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	PropertyID  string    `json:"propertyId"`
	UnitID      string    `json:"unitId"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // open, in_progress, resolved, closed
	CreatedAt   time.Time `json:"createdAt"`
	ResolvedAt  time.Time `json:"resolvedAt,omitempty"`
}

// Announcement is a property-wide notice published by a manager.
type Announcement struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId,omitempty"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Audience   string    `json:"audience"` // all, tenants, staff
	CreatedAt  time.Time `json:"createdAt"`
}

// AppVersion is a published mobile/web release record.
type AppVersion struct {
	ID          string    `json:"id"`
	Platform    string    `json:"platform"` // android, ios, web
	Version     string    `json:"version"`
	Mandatory   bool      `json:"mandatory"`
	ReleaseNote string    `json:"releaseNote,omitempty"`
	ReleasedAt  time.Time `json:"releasedAt"`
}

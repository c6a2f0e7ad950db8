// ABOUTME: SaaS admin console models (users, templates, subscriptions, tickets)
// ABOUTME: Mirrors of backend records served through the admin proxy routes

package models

import "time"

// AdminUser is an account row in the SaaS console.
type AdminUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Tier      string    `json:"tier"`
	Suspended bool      `json:"suspended"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscription is a billing-plan assignment for a console customer.
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"` // active, past_due, cancelled
	RenewsAt  time.Time `json:"renewsAt"`
	StartedAt time.Time `json:"startedAt"`
}

// SupportTicket is a customer support thread.
type SupportTicket struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"` // open, pending, closed
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AnalyticsSummary is the console's headline metrics payload.
type AnalyticsSummary struct {
	TotalUsers          int       `json:"totalUsers"`
	ActiveSubscriptions int       `json:"activeSubscriptions"`
	OpenTickets         int       `json:"openTickets"`
	MonthlyRevenue      float64   `json:"monthlyRevenue"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

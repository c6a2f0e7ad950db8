// ABOUTME: Bill and payment models plus bill-generation arithmetic
// ABOUTME: Computes itemized and metered (consumption x unit price) charges

package models

import (
	"fmt"
	"math"
	"time"
)

// BillLine is a single charge on a generated bill. Metered lines carry the
// consumption breakdown; flat lines leave those fields zero.
type BillLine struct {
	Description string  `json:"description"`
	Metered     bool    `json:"metered"`
	Consumption float64 `json:"consumption,omitempty"`
	UnitPrice   float64 `json:"unitPrice,omitempty"`
	Amount      float64 `json:"amount"`
}

// Bill is an invoice issued to a tenant for one billing period.
type Bill struct {
	ID        string     `json:"id,omitempty"`
	TenantID  string     `json:"tenantId"`
	UnitID    string     `json:"unitId"`
	Period    string     `json:"period"` // e.g. "2026-08"
	Lines     []BillLine `json:"lines"`
	Total     float64    `json:"total"`
	Status    string     `json:"status,omitempty"` // pending, partial, paid, overdue
	DueDate   time.Time  `json:"dueDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
}

// Payment records money received against a bill.
type Payment struct {
	ID        string    `json:"id"`
	BillID    string    `json:"billId"`
	TenantID  string    `json:"tenantId"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"` // mpesa, card, bank, cash
	Reference string    `json:"reference,omitempty"`
	PaidAt    time.Time `json:"paidAt"`
}

// ItemCharge is a flat line item on a bill draft (rent, service charge, ...).
type ItemCharge struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// MeteredCharge bills a utility by consumption: the difference between two
// meter readings priced per unit (water, electricity).
type MeteredCharge struct {
	Utility         string  `json:"utility"`
	PreviousReading float64 `json:"previousReading"`
	CurrentReading  float64 `json:"currentReading"`
	UnitPrice       float64 `json:"unitPrice"`
}

// BillInput is a bill draft submitted for generation.
type BillInput struct {
	TenantID string          `json:"tenantId"`
	UnitID   string          `json:"unitId"`
	Period   string          `json:"period"`
	DueDate  time.Time       `json:"dueDate,omitempty"`
	Items    []ItemCharge    `json:"items"`
	Metered  []MeteredCharge `json:"metered"`
}

// GenerateBill turns a draft into an itemized bill: one line per flat item,
// one line per metered charge at consumption x unit price, with the total
// aggregated across all lines. Amounts are rounded to cents per line so the
// total matches the sum a reader would compute from the printed lines.
func GenerateBill(in BillInput) (Bill, error) {
	if in.TenantID == "" {
		return Bill{}, fmt.Errorf("tenantId is required")
	}
	if in.Period == "" {
		return Bill{}, fmt.Errorf("period is required")
	}
	if len(in.Items) == 0 && len(in.Metered) == 0 {
		return Bill{}, fmt.Errorf("bill has no charges")
	}

	bill := Bill{
		TenantID: in.TenantID,
		UnitID:   in.UnitID,
		Period:   in.Period,
		DueDate:  in.DueDate,
		Lines:    make([]BillLine, 0, len(in.Items)+len(in.Metered)),
	}

	for _, item := range in.Items {
		if item.Description == "" {
			return Bill{}, fmt.Errorf("item charge missing description")
		}
		if item.Amount < 0 {
			return Bill{}, fmt.Errorf("negative amount for %q", item.Description)
		}
		amount := roundCents(item.Amount)
		bill.Lines = append(bill.Lines, BillLine{
			Description: item.Description,
			Amount:      amount,
		})
		bill.Total += amount
	}

	for _, m := range in.Metered {
		if m.Utility == "" {
			return Bill{}, fmt.Errorf("metered charge missing utility")
		}
		consumption := m.CurrentReading - m.PreviousReading
		if consumption < 0 {
			return Bill{}, fmt.Errorf("meter for %q ran backwards: %.2f -> %.2f",
				m.Utility, m.PreviousReading, m.CurrentReading)
		}
		if m.UnitPrice < 0 {
			return Bill{}, fmt.Errorf("negative unit price for %q", m.Utility)
		}
		amount := roundCents(consumption * m.UnitPrice)
		bill.Lines = append(bill.Lines, BillLine{
			Description: m.Utility,
			Metered:     true,
			Consumption: consumption,
			UnitPrice:   m.UnitPrice,
			Amount:      amount,
		})
		bill.Total += amount
	}

	bill.Total = roundCents(bill.Total)
	return bill, nil
}

// roundCents rounds to two decimal places, half away from zero.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

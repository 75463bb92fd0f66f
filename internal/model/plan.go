package model

import "time"

// Plan is a subscription plan row.  Features holds the raw stored value,
// which may be a JSON array of keys or names, a comma separated list or
// NULL.
type Plan struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	PriceCents    int       `json:"price_cents"`
	BillingPeriod string    `json:"billing_period"`
	Features      *string   `json:"-"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// PlanView is a plan as returned to clients, with features normalized to
// display names.
type PlanView struct {
	Plan
	Features []string `json:"features"`
}

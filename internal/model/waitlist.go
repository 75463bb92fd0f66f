package model

import "time"

// Waitlist statuses.  Only waiting entries count towards wait estimates.
const (
	WaitlistWaiting   = "waiting"
	WaitlistSeated    = "seated"
	WaitlistCancelled = "cancelled"
	WaitlistNoShow    = "no_show"
)

// WaitlistEntry is a queued party for a date and time slot.  The estimate
// is computed once when the entry is created.
type WaitlistEntry struct {
	ID                uint64    `json:"id"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     *string   `json:"customer_email"`
	CustomerPhone     string    `json:"customer_phone"`
	PartySize         int       `json:"party_size"`
	Date              string    `json:"requested_date"`
	Time              string    `json:"requested_time"`
	Status            string    `json:"status"`
	EstimatedWaitTime int       `json:"estimated_wait_time"`
	Notified          bool      `json:"notified"`
	SpecialRequests   *string   `json:"special_requests"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsWaitlistStatus reports whether s is a known waitlist status.
func IsWaitlistStatus(s string) bool {
	switch s {
	case WaitlistWaiting, WaitlistSeated, WaitlistCancelled, WaitlistNoShow:
		return true
	}
	return false
}

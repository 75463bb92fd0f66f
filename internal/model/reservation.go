package model

import "time"

// Reservation statuses.  A reservation without a table is on the waitlist.
const (
	ReservationConfirmed = "confirmed"
	ReservationWaitlist  = "waitlist"
	ReservationCancelled = "cancelled"
)

// Reservation is a booking request for a date and time.  Date is
// formatted YYYY-MM-DD and Time HH:MM.  TableID is nil while the
// reservation is waitlisted.
type Reservation struct {
	ID              uint64    `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   *string   `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	PartySize       int       `json:"party_size"`
	Date            string    `json:"reservation_date"`
	Time            string    `json:"reservation_time"`
	TableID         *uint64   `json:"table_id"`
	Status          string    `json:"status"`
	SpecialRequests *string   `json:"special_requests"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsReservationStatus reports whether s is a known reservation status.
func IsReservationStatus(s string) bool {
	switch s {
	case ReservationConfirmed, ReservationWaitlist, ReservationCancelled:
		return true
	}
	return false
}

// Package queue carries notification events over RabbitMQ.  Services
// publish after their transaction commits; the notifier consumes the
// events and sends emails.
package queue

// Exchange and routing keys.
const (
	ExchangeName = "restaurant"

	RoutingReservationCreated = "reservation.created"
	RoutingWaitlistJoined     = "waitlist.joined"

	NotificationQueue = "restaurant.notifications"
)

// ReservationCreatedEvent is published for every new reservation, whether
// it got a table or landed on the waitlist.
type ReservationCreatedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	CustomerPhone string  `json:"customer_phone"`
	PartySize     int     `json:"party_size"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Status        string  `json:"status"`
	TableID       *uint64 `json:"table_id,omitempty"`
	TableNumber   *int    `json:"table_number,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// WaitlistJoinedEvent is published when a party joins the waitlist.
type WaitlistJoinedEvent struct {
	EntryID           uint64 `json:"entry_id"`
	CustomerName      string `json:"customer_name"`
	CustomerEmail     string `json:"customer_email,omitempty"`
	CustomerPhone     string `json:"customer_phone"`
	PartySize         int    `json:"party_size"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	Position          int    `json:"position"`
	EstimatedWaitTime int    `json:"estimated_wait_time"`
	CreatedAt         string `json:"created_at"`
}

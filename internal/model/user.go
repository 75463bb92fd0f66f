package model

import "time"

// Subscription statuses.  Only active subscriptions grant paid features.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// User carries the denormalized subscription fields stored on the users
// row.  PlanRef is the raw plan reference: a numeric id, a plan name or a
// legacy alias.
type User struct {
	ID                 uint64     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	PlanRef            *string    `json:"subscription_plan"`
	SubscriptionStatus *string    `json:"subscription_status"`
	SubscriptionEnd    *time.Time `json:"subscription_end"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Subscription is a row of the subscriptions table.
type Subscription struct {
	ID               uint64     `json:"id"`
	UserID           uint64     `json:"user_id"`
	PlanRef          string     `json:"plan_ref"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
	CreatedAt        time.Time  `json:"created_at"`
}

// SubscriptionState is a user together with the latest subscriptions row,
// if one exists.
type SubscriptionState struct {
	User         User
	Subscription *Subscription
}

package models

import "time"

// Subscription is the local mirror of the provider's subscription record.
// Status values are stored as the provider reports them; the provider's state
// machine is not re-derived here.
type Subscription struct {
	ID                   int        `json:"id"`
	UserID               int        `json:"user_id"`
	StripeSubscriptionID string     `json:"stripe_subscription_id"`
	Status               string     `json:"status"`
	IsActive             bool       `json:"is_active"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	CanceledAt           *time.Time `json:"canceled_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

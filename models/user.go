package models

import "time"

type User struct {
	ID               int       `json:"id"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Role             string    `json:"role"`
	StripeCustomerID string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfileDetails is the profile header payload; the subscription flag lets
// clients gate member-only surfaces like trials.
type ProfileDetails struct {
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Email                 string `json:"email"`
	HasActiveSubscription bool   `json:"has_active_subscription"`
}

type UserAddress struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	AddressType string    `json:"address_type"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

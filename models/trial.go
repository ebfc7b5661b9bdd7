package models

import "time"

// Trial lifecycle. A trial ships first, runs while the customer has the
// product, and ends completed, cancelled or overdue.
const (
	TrialStatusShipping  = "shipping"
	TrialStatusActive    = "active"
	TrialStatusCompleted = "completed"
	TrialStatusCancelled = "cancelled"
	TrialStatusOverdue   = "overdue"
)

// TrialProduct is a product offered for subscriber trials. It is a separate
// catalog from regular products: trial units are loaned, not sold.
type TrialProduct struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ImageURLs       []string `json:"image_urls"`
	CategoryID      int      `json:"category_id"`
	TrialPeriodDays int      `json:"trial_period_days"`
	AvailableCount  int      `json:"available_count"`
	Tags            []string `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Trial is one user's loan of a trial product. Users hold at most one trial
// in a live status (shipping or active) at a time.
type Trial struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	TrialProductID int       `json:"trial_product_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status"`
	Feedback       *string   `json:"feedback,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrialDetails is a trial joined with the product fields the frontend shows
// on the trial page.
type TrialDetails struct {
	Trial
	ProductTitle     string   `json:"product_title"`
	ProductImageURLs []string `json:"product_image_urls"`
}

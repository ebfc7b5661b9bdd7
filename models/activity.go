package models

import "time"

type SearchTerm struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	SearchTerm string    `json:"search_term"`
	CreatedAt  time.Time `json:"created_at"`
}

type TrendingSearch struct {
	TrendingSearchTerm string `json:"trending_search_term"`
	OccurrenceCount    int    `json:"occurrence_count"`
}

type ProductView struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}

const (
	BestOfPeriodWeek  = "week"
	BestOfPeriodMonth = "month"
)

type BestOfProducts struct {
	Period     string    `json:"period"`
	ProductIDs []int     `json:"product_ids"`
	StartDate  time.Time `json:"start_date"`
	UpdatedAt  time.Time `json:"updated_at"`
}

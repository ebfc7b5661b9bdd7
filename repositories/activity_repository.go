package repositories

import (
	"context"
	"errors"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) RecordSearchTerm(ctx context.Context, userID int, term string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO search_terms (user_id, search_term, created_at) VALUES ($1, $2, $3)`,
		userID, term, time.Now())
	return err
}

func (r *ActivityRepository) SearchTermsSince(ctx context.Context, userID int, since time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT search_term FROM search_terms
		 WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at DESC`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

func (r *ActivityRepository) RecordProductView(ctx context.Context, userID, productID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO product_views (user_id, product_id, viewed_at) VALUES ($1, $2, $3)`,
		userID, productID, time.Now())
	return err
}

func (r *ActivityRepository) ViewedProductIDsSince(ctx context.Context, userID int, since time.Time) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT product_id FROM product_views
		 WHERE user_id = $1 AND viewed_at >= $2`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AggregateSearchTerms groups recorded searches case-insensitively and returns
// the most frequent ones since the cutoff.
func (r *ActivityRepository) AggregateSearchTerms(ctx context.Context, since time.Time, limit int) ([]models.TrendingSearch, error) {
	rows, err := r.db.Query(ctx,
		`SELECT LOWER(search_term), COUNT(*)
		 FROM search_terms
		 WHERE created_at >= $1
		 GROUP BY LOWER(search_term)
		 ORDER BY COUNT(*) DESC
		 LIMIT $2`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.TrendingSearch{}
	for rows.Next() {
		var e models.TrendingSearch
		if err := rows.Scan(&e.TrendingSearchTerm, &e.OccurrenceCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ActivityRepository) ReplaceTrendingSearches(ctx context.Context, entries []models.TrendingSearch) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trending_searches`); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO trending_searches (trending_search_term, occurrence_count) VALUES ($1, $2)`,
			e.TrendingSearchTerm, e.OccurrenceCount); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ActivityRepository) ListTrendingSearches(ctx context.Context) ([]models.TrendingSearch, error) {
	rows, err := r.db.Query(ctx,
		`SELECT trending_search_term, occurrence_count
		 FROM trending_searches ORDER BY occurrence_count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.TrendingSearch{}
	for rows.Next() {
		var e models.TrendingSearch
		if err := rows.Scan(&e.TrendingSearchTerm, &e.OccurrenceCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ActivityRepository) ReplaceBestOf(ctx context.Context, period string, productIDs []int, startDate time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM best_of_products WHERE period = $1`, period); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO best_of_products (period, product_ids, start_date, updated_at)
		 VALUES ($1, $2, $3, $4)`, period, productIDs, startDate, time.Now()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ActivityRepository) GetBestOf(ctx context.Context, period string) (*models.BestOfProducts, error) {
	var b models.BestOfProducts
	err := r.db.QueryRow(ctx,
		`SELECT period, product_ids, start_date, updated_at FROM best_of_products WHERE period = $1`,
		period).Scan(&b.Period, &b.ProductIDs, &b.StartDate, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

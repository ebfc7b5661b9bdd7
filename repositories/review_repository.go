package repositories

import (
	"context"
	"errors"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO reviews (product_id, user_id, order_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		review.ProductID, review.UserID, review.OrderID, review.Rating, review.Comment, time.Now(),
	).Scan(&review.ID, &review.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int) (*models.Review, error) {
	var rev models.Review
	err := r.db.QueryRow(ctx,
		`SELECT id, product_id, user_id, order_id, rating, comment, created_at
		 FROM reviews WHERE id = $1`, id).
		Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.OrderID, &rev.Rating, &rev.Comment, &rev.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID, page, limit int) ([]models.ReviewWithAuthor, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.product_id, r.user_id, r.order_id, r.rating, r.comment, r.created_at,
			COALESCE(u.first_name || ' ' || u.last_name, '')
		 FROM reviews r
		 LEFT JOIN users u ON u.id = r.user_id
		 WHERE r.product_id = $1
		 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := []models.ReviewWithAuthor{}
	for rows.Next() {
		var rev models.ReviewWithAuthor
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.OrderID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.AuthorName); err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, total, rows.Err()
}

func (r *ReviewRepository) ReviewedProductIDs(ctx context.Context, orderID, userID int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id FROM reviews WHERE order_id = $1 AND user_id = $2`, orderID, userID)
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

func (r *ReviewRepository) RecentComments(ctx context.Context, userID int, since time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT comment FROM reviews
		 WHERE user_id = $1 AND created_at >= $2 AND comment <> ''
		 ORDER BY created_at DESC`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

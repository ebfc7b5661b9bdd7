package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeRepository struct {
	db *pgxpool.Pool
}

func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(ctx context.Context, userID, productID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO likes (user_id, product_id, created_at) VALUES ($1, $2, $3)`,
		userID, productID, time.Now())
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *LikeRepository) Delete(ctx context.Context, userID, productID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

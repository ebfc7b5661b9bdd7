package repositories

import (
	"context"
	"errors"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, stripe_subscription_id, status, is_active,
			started_at, expires_at, canceled_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`,
		sub.UserID, sub.StripeSubscriptionID, sub.Status, sub.IsActive,
		sub.StartedAt, sub.ExpiresAt, sub.CanceledAt, time.Now(),
	).Scan(&sub.ID, &sub.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

const subscriptionColumns = `id, user_id, stripe_subscription_id, status, is_active,
	started_at, expires_at, canceled_at, created_at`

func (r *SubscriptionRepository) FindByStripeID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error) {
	var s models.Subscription
	err := r.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE stripe_subscription_id = $1`,
		stripeSubscriptionID).
		Scan(&s.ID, &s.UserID, &s.StripeSubscriptionID, &s.Status, &s.IsActive,
			&s.StartedAt, &s.ExpiresAt, &s.CanceledAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET status = $1, is_active = $2, started_at = $3,
			expires_at = $4, canceled_at = $5 WHERE id = $6`,
		sub.Status, sub.IsActive, sub.StartedAt, sub.ExpiresAt, sub.CanceledAt, sub.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) HasActive(ctx context.Context, userID int) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = $1 AND is_active AND status = 'active'
		)`, userID).Scan(&active)
	return active, err
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID int) ([]models.Subscription, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []models.Subscription{}
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.StripeSubscriptionID, &s.Status, &s.IsActive,
			&s.StartedAt, &s.ExpiresAt, &s.CanceledAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

package repositories

import (
	"context"
	"errors"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetCart(ctx context.Context, ownerID int) (*models.Cart, error) {
	cart := &models.Cart{OwnerID: ownerID, Items: []models.CartItem{}}

	err := r.db.QueryRow(ctx,
		`SELECT cargo_fee, updated_at FROM carts WHERE owner_id = $1`, ownerID).
		Scan(&cart.CargoFee, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE owner_id = $1 ORDER BY product_id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, rows.Err()
}

func (r *CartRepository) CreateCart(ctx context.Context, ownerID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO carts (owner_id, cargo_fee, updated_at) VALUES ($1, 0, $2)
		 ON CONFLICT (owner_id) DO NOTHING`, ownerID, time.Now())
	return err
}

// UpsertItem sets the line's quantity outright. The caller has already merged
// quantities and validated stock; last write wins on concurrent mutation.
func (r *CartRepository) UpsertItem(ctx context.Context, ownerID, productID, quantity int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO cart_items (owner_id, product_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (owner_id, product_id) DO UPDATE SET quantity = $3`,
		ownerID, productID, quantity)
	if err != nil {
		return err
	}
	return r.touch(ctx, ownerID)
}

func (r *CartRepository) RemoveItem(ctx context.Context, ownerID, productID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1 AND product_id = $2`, ownerID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return r.touch(ctx, ownerID)
}

func (r *CartRepository) SetCargoFee(ctx context.Context, ownerID int, fee float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE carts SET cargo_fee = $1, updated_at = $2 WHERE owner_id = $3`,
		fee, time.Now(), ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, ownerID int) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1`, ownerID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`UPDATE carts SET cargo_fee = 0, updated_at = $1 WHERE owner_id = $2`, time.Now(), ownerID)
	return err
}

func (r *CartRepository) touch(ctx context.Context, ownerID int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE carts SET updated_at = $1 WHERE owner_id = $2`, time.Now(), ownerID)
	return err
}

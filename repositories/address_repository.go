package repositories

import (
	"context"
	"errors"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AddressRepository struct {
	db *pgxpool.Pool
}

func NewAddressRepository(db *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{db: db}
}

const addressColumns = `id, user_id, full_name, phone_number, address, city, state, postal_code,
	country, address_type, is_default, created_at`

func scanAddress(row pgx.Row) (*models.UserAddress, error) {
	var a models.UserAddress
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.PhoneNumber, &a.Address, &a.City,
		&a.State, &a.PostalCode, &a.Country, &a.AddressType, &a.IsDefault, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts the address, demoting any existing default first when the new
// one claims the default slot. At most one default per user.
func (r *AddressRepository) Create(ctx context.Context, address *models.UserAddress) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if address.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE user_addresses SET is_default = false WHERE user_id = $1`, address.UserID); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO user_addresses (user_id, full_name, phone_number, address, city, state,
			postal_code, country, address_type, is_default, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id, created_at`,
		address.UserID, address.FullName, address.PhoneNumber, address.Address, address.City,
		address.State, address.PostalCode, address.Country, address.AddressType,
		address.IsDefault, time.Now(),
	).Scan(&address.ID, &address.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID int) ([]models.UserAddress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE user_id = $1 ORDER BY is_default DESC, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []models.UserAddress{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *a)
	}
	return addresses, rows.Err()
}

func (r *AddressRepository) FindByID(ctx context.Context, id int) (*models.UserAddress, error) {
	return scanAddress(r.db.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE id = $1`, id))
}

func (r *AddressRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AddressRepository) GetDefault(ctx context.Context, userID int) (*models.UserAddress, error) {
	return scanAddress(r.db.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE user_id = $1 AND is_default = true`, userID))
}

func (r *AddressRepository) HasDefault(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_addresses WHERE user_id = $1 AND is_default = true)`, userID).
		Scan(&exists)
	return exists, err
}

func (r *AddressRepository) SetDefault(ctx context.Context, userID, addressID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE user_addresses SET is_default = false WHERE user_id = $1`, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE user_addresses SET is_default = true WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

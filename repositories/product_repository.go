package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, title, description, image_urls, category_id, price, old_price, sale_price,
	stock_count, tags, cargo_weight, review_count, average_rating, like_count, created_at, updated_at`

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURLs, &p.CategoryID, &p.Price,
		&p.OldPrice, &p.SalePrice, &p.StockCount, &p.Tags, &p.CargoWeight,
		&p.ReviewCount, &p.AverageRating, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	defer rows.Close()
	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (title, description, image_urls, category_id, price, old_price, sale_price,
			stock_count, tags, cargo_weight, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING id, created_at, updated_at`
	now := time.Now()
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	return r.db.QueryRow(ctx, query,
		product.Title, product.Description, product.ImageURLs, product.CategoryID,
		product.Price, product.OldPrice, product.SalePrice, product.StockCount,
		product.Tags, product.CargoWeight, now,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `UPDATE products SET title = $1, description = $2, image_urls = $3, category_id = $4,
		price = $5, old_price = $6, sale_price = $7, stock_count = $8, tags = $9,
		cargo_weight = $10, updated_at = $11 WHERE id = $12`
	tag, err := r.db.Exec(ctx, query,
		product.Title, product.Description, product.ImageURLs, product.CategoryID,
		product.Price, product.OldPrice, product.SalePrice, product.StockCount,
		product.Tags, product.CargoWeight, time.Now(), product.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	products, err := scanProducts(rows)
	return products, total, err
}

func (r *ProductRepository) ListByCategoryIDs(ctx context.Context, categoryIDs []int, page, limit int) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = ANY($1)`, categoryIDs).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products
		WHERE category_id = ANY($1) ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, categoryIDs, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	products, err := scanProducts(rows)
	return products, total, err
}

// Search runs a full-text match over title, description and tags, ranked by
// relevance. The search_vector column is maintained by a trigger in the
// migration.
func (r *ProductRepository) Search(ctx context.Context, query string, categoryID, page, limit int) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	conditions := []string{"search_vector @@ plainto_tsquery('english', $1)"}
	args := []interface{}{query}
	argIndex := 2

	if categoryID > 0 {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, categoryID)
		argIndex++
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(` ORDER BY ts_rank(search_vector, plainto_tsquery('english', $1)) DESC LIMIT $%d OFFSET $%d`,
			argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	products, err := scanProducts(rows)
	return products, total, err
}

func (r *ProductRepository) ListDeals(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE sale_price IS NOT NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products
		WHERE sale_price IS NOT NULL ORDER BY (price - sale_price) / price DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	products, err := scanProducts(rows)
	return products, total, err
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id, qty int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET stock_count = stock_count - $1, updated_at = $2
		 WHERE id = $3 AND stock_count >= $1`, qty, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id, delta int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET stock_count = GREATEST(stock_count + $1, 0), updated_at = $2 WHERE id = $3`,
		delta, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) UpdateRating(ctx context.Context, id, reviewCount int, averageRating float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET review_count = $1, average_rating = $2, updated_at = $3 WHERE id = $4`,
		reviewCount, averageRating, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) AdjustLikeCount(ctx context.Context, id, delta int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET like_count = GREATEST(like_count + $1, 0), updated_at = $2 WHERE id = $3`,
		delta, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

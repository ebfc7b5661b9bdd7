package repositories

import (
	"context"
	"errors"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, description, parent_id, is_active, created_at`

func scanCategories(rows pgx.Rows) ([]models.Category, error) {
	defer rows.Close()
	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) ListRoot(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE parent_id IS NULL AND is_active = true ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows)
}

func (r *CategoryRepository) ListChildren(ctx context.Context, parentID int) ([]models.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE parent_id = $1 AND is_active = true ORDER BY name`, parentID)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DescendantIDs walks the category tree in a single recursive query. The
// result includes the starting category itself.
func (r *CategoryRepository) DescendantIDs(ctx context.Context, id int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`WITH RECURSIVE descendants AS (
			SELECT id FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id FROM categories c
			JOIN descendants d ON c.parent_id = d.id
			WHERE c.is_active = true
		)
		SELECT id FROM descendants`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var cid int
		if err := rows.Scan(&cid); err != nil {
			return nil, err
		}
		ids = append(ids, cid)
	}
	return ids, rows.Err()
}

package repositories

import (
	"context"
	"errors"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const trialProductColumns = `id, title, description, image_urls, category_id, trial_period_days,
	available_count, tags, created_at, updated_at`

type TrialProductRepository struct {
	db *pgxpool.Pool
}

func NewTrialProductRepository(db *pgxpool.Pool) *TrialProductRepository {
	return &TrialProductRepository{db: db}
}

func scanTrialProduct(row pgx.Row) (*models.TrialProduct, error) {
	var p models.TrialProduct
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURLs, &p.CategoryID,
		&p.TrialPeriodDays, &p.AvailableCount, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanTrialProducts(rows pgx.Rows) ([]models.TrialProduct, error) {
	defer rows.Close()
	products := []models.TrialProduct{}
	for rows.Next() {
		p, err := scanTrialProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *TrialProductRepository) FindByID(ctx context.Context, id int) (*models.TrialProduct, error) {
	query := `SELECT ` + trialProductColumns + ` FROM trial_products WHERE id = $1`
	return scanTrialProduct(r.db.QueryRow(ctx, query, id))
}

func (r *TrialProductRepository) List(ctx context.Context, page, limit int) ([]models.TrialProduct, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trial_products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + trialProductColumns + ` FROM trial_products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	products, err := scanTrialProducts(rows)
	return products, total, err
}

func (r *TrialProductRepository) ListLatest(ctx context.Context, limit int) ([]models.TrialProduct, error) {
	query := `SELECT ` + trialProductColumns + ` FROM trial_products ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanTrialProducts(rows)
}

func (r *TrialProductRepository) ListByCategoryIDs(ctx context.Context, categoryIDs []int, page, limit int) ([]models.TrialProduct, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM trial_products WHERE category_id = ANY($1)`, categoryIDs).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + trialProductColumns + ` FROM trial_products
		WHERE category_id = ANY($1) ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, categoryIDs, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	products, err := scanTrialProducts(rows)
	return products, total, err
}

func (r *TrialProductRepository) Search(ctx context.Context, query string, page, limit int) ([]models.TrialProduct, int, error) {
	offset := (page - 1) * limit
	where := ` WHERE search_vector @@ plainto_tsquery('english', $1)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trial_products`+where, query).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := `SELECT ` + trialProductColumns + ` FROM trial_products` + where +
		` ORDER BY ts_rank(search_vector, plainto_tsquery('english', $1)) DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, sql, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	products, err := scanTrialProducts(rows)
	return products, total, err
}

const trialColumns = `id, user_id, trial_product_id, start_date, end_date, status, feedback, created_at`

type TrialRepository struct {
	db *pgxpool.Pool
}

func NewTrialRepository(db *pgxpool.Pool) *TrialRepository {
	return &TrialRepository{db: db}
}

func (r *TrialRepository) Create(ctx context.Context, trial *models.Trial) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO trials (user_id, trial_product_id, start_date, end_date, status, feedback, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		trial.UserID, trial.TrialProductID, trial.StartDate, trial.EndDate,
		trial.Status, trial.Feedback, time.Now(),
	).Scan(&trial.ID, &trial.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *TrialRepository) FindLiveByUser(ctx context.Context, userID int) (*models.Trial, error) {
	var t models.Trial
	err := r.db.QueryRow(ctx,
		`SELECT `+trialColumns+` FROM trials
		 WHERE user_id = $1 AND status IN ('shipping', 'active')`,
		userID).
		Scan(&t.ID, &t.UserID, &t.TrialProductID, &t.StartDate, &t.EndDate,
			&t.Status, &t.Feedback, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TrialRepository) FindLiveDetails(ctx context.Context, userID int) (*models.TrialDetails, error) {
	var d models.TrialDetails
	err := r.db.QueryRow(ctx,
		`SELECT t.id, t.user_id, t.trial_product_id, t.start_date, t.end_date, t.status,
			t.feedback, t.created_at, p.title, p.image_urls
		 FROM trials t JOIN trial_products p ON p.id = t.trial_product_id
		 WHERE t.user_id = $1 AND t.status IN ('shipping', 'active')`,
		userID).
		Scan(&d.ID, &d.UserID, &d.TrialProductID, &d.StartDate, &d.EndDate, &d.Status,
			&d.Feedback, &d.CreatedAt, &d.ProductTitle, &d.ProductImageURLs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

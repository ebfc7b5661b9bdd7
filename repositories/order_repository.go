package repositories

import (
	"context"
	"errors"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order header and its price-snapshotted items in one
// transaction. The items are the only transactional unit here; stock
// reconciliation happens after the fact (see the checkout service).
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, delivery_address, payment_intent_id, amount, currency, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		order.UserID, order.DeliveryAddress, order.PaymentIntentID,
		order.Amount, order.Currency, order.Status, time.Now(),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
			order.ID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *OrderRepository) loadItems(ctx context.Context, order *models.Order) error {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, quantity, price FROM order_items WHERE order_id = $1 ORDER BY product_id`,
		order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *OrderRepository) scanOrder(ctx context.Context, row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.DeliveryAddress, &o.PaymentIntentID,
		&o.Amount, &o.Currency, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

const orderColumns = `id, user_id, delivery_address, payment_intent_id, amount, currency, status, created_at`

func (r *OrderRepository) FindByID(ctx context.Context, id int) (*models.Order, error) {
	return r.scanOrder(ctx, r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *OrderRepository) FindUserOrder(ctx context.Context, orderID, userID int) (*models.Order, error) {
	return r.scanOrder(ctx, r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID))
}

func (r *OrderRepository) FindByPaymentIntent(ctx context.Context, userID int, paymentIntentID string) (*models.Order, error) {
	return r.scanOrder(ctx, r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND payment_intent_id = $2`,
		userID, paymentIntentID))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.DeliveryAddress, &o.PaymentIntentID,
			&o.Amount, &o.Currency, &o.Status, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TopOrderedProducts returns product ids with the highest ordered quantities
// in the window, most ordered first.
func (r *OrderRepository) TopOrderedProducts(ctx context.Context, from, to time.Time, limit int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT oi.product_id
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.created_at >= $1 AND o.created_at <= $2
		 GROUP BY oi.product_id
		 ORDER BY SUM(oi.quantity) DESC
		 LIMIT $3`, from, to, limit)
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

func (r *OrderRepository) DeliveredProductIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT oi.product_id
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.user_id = $1 AND o.status = $2`, userID, models.OrderStatusDelivered)
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

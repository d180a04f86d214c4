package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
)

// OrderRepository defines the interface for order data access. Orders and
// their line items are always written together in one transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListActive(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	SetItemPacked(ctx context.Context, orderID, itemID uuid.UUID, packed bool) error
	Archive(ctx context.Context, completed *domain.CompletedOrder) error
	ListCompleted(ctx context.Context) ([]*domain.CompletedOrder, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and all of its line items atomically.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, user_id, status, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID,
		order.UserID,
		string(order.Status),
		order.Total,
		order.CreatedAt,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to create order: %w", err))
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price, packed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, itemQuery,
			item.ID,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
			item.Packed,
		)
		if err != nil {
			return classify(fmt.Errorf("failed to create order item: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit order: %w", err))
	}

	return nil
}

// FindByID retrieves an order with its line items.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, user_id, status, total, created_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, classify(fmt.Errorf("failed to find order by ID: %w", err))
	}

	if err := r.attachItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByUser retrieves a user's orders with nested line items, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, status, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.queryOrders(ctx, query, userID)
}

// ListActive retrieves the orders still on the fulfillment board: everything
// pending or processing, oldest first so the board works the backlog in
// arrival order.
func (r *orderRepository) ListActive(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, status, total, created_at
		FROM orders
		WHERE status IN ($1, $2)
		ORDER BY created_at ASC
	`
	return r.queryOrders(ctx, query, string(domain.OrderStatusPending), string(domain.OrderStatusProcessing))
}

// UpdateStatus advances an order's status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return classify(fmt.Errorf("failed to update order status: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// SetItemPacked stores the packed flag for one line item of an order.
func (r *orderRepository) SetItemPacked(ctx context.Context, orderID, itemID uuid.UUID, packed bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE order_items SET packed = $3 WHERE id = $2 AND order_id = $1`,
		orderID, itemID, packed)
	if err != nil {
		return classify(fmt.Errorf("failed to set packed flag: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderItemNotFound
	}

	return nil
}

// Archive writes the completed-order log row and removes the order from the
// active set in one transaction, so the board never drops an order without
// the log gaining it.
func (r *orderRepository) Archive(ctx context.Context, completed *domain.CompletedOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	logQuery := `
		INSERT INTO completed_orders (id, order_id, user_id, item_summary, total, ordered_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, logQuery,
		completed.ID,
		completed.OrderID,
		completed.UserID,
		completed.ItemSummary,
		completed.Total,
		completed.OrderedAt,
		completed.CompletedAt,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to write completed order: %w", err))
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, completed.OrderID); err != nil {
		return classify(fmt.Errorf("failed to delete order items: %w", err))
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, completed.OrderID)
	if err != nil {
		return classify(fmt.Errorf("failed to delete order: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit archive: %w", err))
	}

	return nil
}

// ListCompleted retrieves the archived order log, newest first.
func (r *orderRepository) ListCompleted(ctx context.Context) ([]*domain.CompletedOrder, error) {
	query := `
		SELECT id, order_id, user_id, item_summary, total, ordered_at, completed_at
		FROM completed_orders
		ORDER BY completed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list completed orders: %w", err))
	}
	defer rows.Close()

	completed := []*domain.CompletedOrder{}
	for rows.Next() {
		c := &domain.CompletedOrder{}
		err := rows.Scan(&c.ID, &c.OrderID, &c.UserID, &c.ItemSummary, &c.Total, &c.OrderedAt, &c.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completed order: %w", err)
		}
		completed = append(completed, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completed orders: %w", err)
	}

	return completed, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list orders: %w", err))
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	args := make([]interface{}, 0, len(orders))
	placeholders := make([]string, 0, len(orders))
	for i, order := range orders {
		order.Items = []domain.OrderItem{}
		byID[order.ID] = order
		args = append(args, order.ID)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}
	if len(orders) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, product_id, product_name, quantity, price, packed
		FROM order_items
		WHERE order_id IN (%s)
		ORDER BY id
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return classify(fmt.Errorf("failed to list order items: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price, &item.Packed)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var status string
	err := row.Scan(&order.ID, &order.UserID, &status, &order.Total, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageturn/biblio/models"
)

// OrderRepository handles database operations for purchases.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder records a purchase and grants the matching entitlement in a
// single transaction. The entitlement insert is idempotent, so buying a book
// the user already owns records the order without duplicating the grant.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" || order.UserID == "" || order.BookID == "" {
		return fmt.Errorf("missing required fields for creating order")
	}
	if _, err := uuid.Parse(order.ID); err != nil {
		return fmt.Errorf("invalid order ID format: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, book_id, price_cents, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, order.UserID, order.BookID, order.PriceCents, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entitlements (user_id, book_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, book_id) DO NOTHING
	`, order.UserID, order.BookID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to grant entitlement for order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return nil
}

// GetOrdersForUser returns a user's purchase history, newest first.
func (r *OrderRepository) GetOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := `
		SELECT id, user_id, book_id, price_cents, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.BookID, &o.PriceCents, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return orders, nil
}

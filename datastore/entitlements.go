package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pageturn/biblio/models"
)

// EntitlementRepository handles database operations for read-access grants.
type EntitlementRepository struct {
	db *sql.DB
}

// NewEntitlementRepository creates a new EntitlementRepository.
func NewEntitlementRepository(db *sql.DB) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

// Grant records an entitlement for (userID, bookID). Granting is idempotent:
// a repeat purchase leaves the existing row untouched.
func (r *EntitlementRepository) Grant(ctx context.Context, userID, bookID string) error {
	query := `
		INSERT INTO entitlements (user_id, book_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, book_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, bookID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to grant entitlement: %w", err)
	}
	return nil
}

// HasEntitlement reports whether an entitlement exists for (userID, bookID).
func (r *EntitlementRepository) HasEntitlement(ctx context.Context, userID, bookID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM entitlements WHERE user_id = $1 AND book_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check entitlement: %w", err)
	}
	return exists, nil
}

// GetLibrary returns summaries of all books the user holds entitlements for.
func (r *EntitlementRepository) GetLibrary(ctx context.Context, userID string) ([]models.BookSummary, error) {
	query := `
		SELECT b.id, b.title, COALESCE(a.name, ''), COALESCE(c.name, ''), b.price_cents
		FROM entitlements e
		JOIN books b ON b.id = e.book_id
		LEFT JOIN authors a ON a.id = b.author_id
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query library: %w", err)
	}
	defer rows.Close()

	var books []models.BookSummary
	for rows.Next() {
		var b models.BookSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.CategoryName, &b.PriceCents); err != nil {
			return nil, fmt.Errorf("failed to scan library row: %w", err)
		}
		books = append(books, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating library rows: %w", err)
	}

	return books, nil
}

package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageturn/biblio/models"
)

// CommentRepository handles database operations for book comments.
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" || comment.BookID == "" || comment.UserID == "" || comment.Body == "" {
		return fmt.Errorf("missing required fields for creating comment")
	}
	if _, err := uuid.Parse(comment.ID); err != nil {
		return fmt.Errorf("invalid comment ID format: %w", err)
	}

	query := `
		INSERT INTO comments (id, book_id, user_id, created_at, body, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.BookID, comment.UserID, comment.CreatedAt, comment.Body, comment.Rating,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetCommentsForBook(ctx context.Context, bookID string) ([]models.Comment, error) {
	query := `
		SELECT id, book_id, user_id, created_at, body, rating
		FROM comments
		WHERE book_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.BookID, &c.UserID, &c.CreatedAt, &c.Body, &c.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	query := `
		SELECT id, book_id, user_id, created_at, body, rating
		FROM comments
		WHERE id = $1
	`
	var c models.Comment
	row := r.db.QueryRowContext(ctx, query, commentID)
	err := row.Scan(&c.ID, &c.BookID, &c.UserID, &c.CreatedAt, &c.Body, &c.Rating)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("comment not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get comment by ID: %w", err)
	}
	return &c, nil
}

func (r *CommentRepository) DeleteComment(ctx context.Context, commentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageturn/biblio/models"
)

// BookRepository handles database operations for books.
type BookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// CreateBook inserts a new book record, including the uploaded file blob
// when present. The caller provides the generated ID.
func (r *BookRepository) CreateBook(ctx context.Context, book *models.Book) error {
	if book.ID == "" || book.Title == "" {
		return fmt.Errorf("missing required fields for creating book")
	}
	if _, err := uuid.Parse(book.ID); err != nil {
		return fmt.Errorf("invalid book ID format: %w", err)
	}

	query := `
		INSERT INTO books (
			id, created_at, title, author_id, description, price_cents,
			category_id, cover_path, file_name, file_content
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		book.ID, book.CreatedAt, book.Title, book.AuthorID, book.Description,
		book.PriceCents, book.CategoryID, book.CoverPath, book.FileName, book.FileContent,
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// GetBooks returns catalog summaries, optionally filtered by a search term
// (title or author name, case-insensitive) and/or a category.
func (r *BookRepository) GetBooks(ctx context.Context, searchTerm, categoryID string) ([]models.BookSummary, error) {
	query := `
		SELECT b.id, b.title, COALESCE(a.name, ''), COALESCE(c.name, ''), b.price_cents, b.description
		FROM books b
		LEFT JOIN authors a ON a.id = b.author_id
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE ($1 = '' OR b.title ILIKE '%' || $1 || '%' OR a.name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR b.category_id = $2::uuid)
		ORDER BY b.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, searchTerm, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []models.BookSummary
	for rows.Next() {
		var b models.BookSummary
		var description string
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.CategoryName, &b.PriceCents, &description); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		// The listing excerpt is derived by the handler; carry the raw
		// description through for it.
		b.Excerpt = description
		books = append(books, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", err)
	}

	return books, nil
}

// GetBookByID retrieves a book's metadata. The file blob is not loaded;
// use GetBookWithContent for the reading paths.
func (r *BookRepository) GetBookByID(ctx context.Context, bookID string) (*models.Book, error) {
	query := `
		SELECT b.id, b.created_at, b.title, b.author_id, COALESCE(a.name, ''),
		       b.description, b.price_cents, b.category_id, b.cover_path,
		       COALESCE(b.file_name, '')
		FROM books b
		LEFT JOIN authors a ON a.id = b.author_id
		WHERE b.id = $1
	`
	var book models.Book
	row := r.db.QueryRowContext(ctx, query, bookID)
	err := row.Scan(
		&book.ID, &book.CreatedAt, &book.Title, &book.AuthorID, &book.Author,
		&book.Description, &book.PriceCents, &book.CategoryID, &book.CoverPath, &book.FileName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("book not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get book by ID: %w", err)
	}
	return &book, nil
}

// GetBookWithContent retrieves a book including its raw file blob.
// Returns (nil, nil) when no book exists with that ID, so the reading
// layer can distinguish absence without knowing about database/sql.
func (r *BookRepository) GetBookWithContent(ctx context.Context, bookID string) (*models.Book, error) {
	query := `
		SELECT b.id, b.created_at, b.title, b.author_id, COALESCE(a.name, ''),
		       b.description, b.price_cents, b.category_id, b.cover_path,
		       COALESCE(b.file_name, ''), b.file_content
		FROM books b
		LEFT JOIN authors a ON a.id = b.author_id
		WHERE b.id = $1
	`
	var book models.Book
	row := r.db.QueryRowContext(ctx, query, bookID)
	err := row.Scan(
		&book.ID, &book.CreatedAt, &book.Title, &book.AuthorID, &book.Author,
		&book.Description, &book.PriceCents, &book.CategoryID, &book.CoverPath,
		&book.FileName, &book.FileContent,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book content: %w", err)
	}
	return &book, nil
}

// UpdateBook updates a book's metadata fields. The file blob and cover are
// managed through their own upload paths and left untouched here.
func (r *BookRepository) UpdateBook(ctx context.Context, book *models.Book) error {
	query := `
		UPDATE books
		SET title = $2, author_id = $3, description = $4, price_cents = $5, category_id = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.AuthorID, book.Description, book.PriceCents, book.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateBookFile replaces the stored file blob and filename.
func (r *BookRepository) UpdateBookFile(ctx context.Context, bookID, fileName string, content []byte) error {
	query := `
		UPDATE books
		SET file_name = NULLIF($2, ''), file_content = $3
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, bookID, fileName, content)
	if err != nil {
		return fmt.Errorf("failed to update book file: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteBook removes a book. Chapters, comments, and entitlements cascade
// at the schema level.
func (r *BookRepository) DeleteBook(ctx context.Context, bookID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

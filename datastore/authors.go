package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pageturn/biblio/models"
)

type AuthorRepository struct {
	db *sql.DB
}

func NewAuthorRepository(db *sql.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

func (r *AuthorRepository) CreateAuthor(ctx context.Context, author *models.Author) error {
	if author.ID == "" || author.Name == "" {
		return fmt.Errorf("missing required fields for creating author")
	}
	query := `INSERT INTO authors (id, name, biography) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, author.ID, author.Name, author.Biography); err != nil {
		return fmt.Errorf("failed to insert author: %w", err)
	}
	return nil
}

func (r *AuthorRepository) GetAuthors(ctx context.Context) ([]models.Author, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, biography FROM authors ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Biography); err != nil {
			return nil, fmt.Errorf("failed to scan author row: %w", err)
		}
		authors = append(authors, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author rows: %w", err)
	}

	return authors, nil
}

func (r *AuthorRepository) GetAuthorByID(ctx context.Context, authorID string) (*models.Author, error) {
	query := `SELECT id, name, biography FROM authors WHERE id = $1`
	var author models.Author
	row := r.db.QueryRowContext(ctx, query, authorID)
	if err := row.Scan(&author.ID, &author.Name, &author.Biography); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("author not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get author by ID: %w", err)
	}
	return &author, nil
}

func (r *AuthorRepository) UpdateAuthor(ctx context.Context, author *models.Author) error {
	query := `UPDATE authors SET name = $2, biography = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, author.ID, author.Name, author.Biography)
	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAuthor removes an author. Books referencing the author keep their
// row with author_id set NULL at the schema level.
func (r *AuthorRepository) DeleteAuthor(ctx context.Context, authorID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageturn/biblio/models"
)

// ChapterRepository handles database operations for chapters.
type ChapterRepository struct {
	db *sql.DB
}

// NewChapterRepository creates a new ChapterRepository.
func NewChapterRepository(db *sql.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

func (r *ChapterRepository) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	if chapter.ID == "" || chapter.BookID == "" || chapter.Title == "" {
		return fmt.Errorf("missing required fields for creating chapter")
	}
	if _, err := uuid.Parse(chapter.ID); err != nil {
		return fmt.Errorf("invalid chapter ID format: %w", err)
	}
	if _, err := uuid.Parse(chapter.BookID); err != nil {
		return fmt.Errorf("invalid book ID format: %w", err)
	}

	query := `
		INSERT INTO chapters (id, book_id, created_at, title, position, body)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		chapter.ID, chapter.BookID, chapter.CreatedAt, chapter.Title, chapter.Position, chapter.Body,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chapter: %w", err)
	}
	return nil
}

// GetChaptersForBook returns the ordered chapter listing for a book.
// Bodies are withheld; they are fetched per chapter by GetChapterByID.
func (r *ChapterRepository) GetChaptersForBook(ctx context.Context, bookID string) ([]models.ChapterSummary, error) {
	query := `
		SELECT id, book_id, title
		FROM chapters
		WHERE book_id = $1
		ORDER BY position ASC, created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chapters: %w", err)
	}
	defer rows.Close()

	var chapters []models.ChapterSummary
	for rows.Next() {
		var c models.ChapterSummary
		if err := rows.Scan(&c.ID, &c.BookID, &c.Title); err != nil {
			return nil, fmt.Errorf("failed to scan chapter row: %w", err)
		}
		chapters = append(chapters, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chapter rows: %w", err)
	}

	return chapters, nil
}

// GetChapterByID retrieves a full chapter including its body markup.
// Returns (nil, nil) when no chapter exists with that ID.
func (r *ChapterRepository) GetChapterByID(ctx context.Context, chapterID string) (*models.Chapter, error) {
	query := `
		SELECT id, book_id, created_at, title, position, body
		FROM chapters
		WHERE id = $1
	`
	var chapter models.Chapter
	row := r.db.QueryRowContext(ctx, query, chapterID)
	err := row.Scan(&chapter.ID, &chapter.BookID, &chapter.CreatedAt, &chapter.Title, &chapter.Position, &chapter.Body)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chapter by ID: %w", err)
	}
	return &chapter, nil
}

func (r *ChapterRepository) UpdateChapter(ctx context.Context, chapter *models.Chapter) error {
	query := `
		UPDATE chapters
		SET title = $2, position = $3, body = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, chapter.ID, chapter.Title, chapter.Position, chapter.Body)
	if err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ChapterRepository) DeleteChapter(ctx context.Context, chapterID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chapters WHERE id = $1`, chapterID)
	if err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

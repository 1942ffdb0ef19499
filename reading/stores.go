// Package reading implements the content-access and format-normalization
// core: per-user entitlement checks, classification of a book's stored
// content into a presentation type, extraction of raw files into readable
// markup, and optional machine translation of the result.
package reading

import (
	"context"

	"github.com/pageturn/biblio/models"
)

// BookStore provides books including their raw file blob.
// GetBookWithContent returns (nil, nil) when no book exists with that ID.
type BookStore interface {
	GetBookWithContent(ctx context.Context, bookID string) (*models.Book, error)
}

// ChapterStore provides chapter listings and individual chapter bodies.
// GetChapterByID returns (nil, nil) when no chapter exists with that ID.
type ChapterStore interface {
	GetChaptersForBook(ctx context.Context, bookID string) ([]models.ChapterSummary, error)
	GetChapterByID(ctx context.Context, chapterID string) (*models.Chapter, error)
}

// EntitlementStore answers whether a purchase-granted entitlement exists.
type EntitlementStore interface {
	HasEntitlement(ctx context.Context, userID, bookID string) (bool, error)
}

// Translator is the optional translation stage applied to extracted markup.
type Translator interface {
	Translate(ctx context.Context, markup, targetLang string) (string, error)
}

// EbookBuilder packages a chaptered book into a downloadable EPUB.
type EbookBuilder interface {
	FromChapters(title, author string, chapters []models.Chapter) ([]byte, error)
}

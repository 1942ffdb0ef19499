package reading

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pageturn/biblio/extract"
	"github.com/pageturn/biblio/models"
)

var (
	// ErrAccessDenied means the user holds no entitlement and is not an
	// admin. Callers surface it as a denial, never a generic failure.
	ErrAccessDenied = errors.New("read access denied")

	// ErrBookNotFound means the book ID resolves to no record.
	ErrBookNotFound = errors.New("book not found")

	// ErrChapterNotFound means the chapter ID resolves to no record.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrNoContent means a download was requested for a book that has
	// neither a stored file nor chapters.
	ErrNoContent = errors.New("book has no content")
)

const (
	msgEmptyContent      = "Content for this book has not been provided yet."
	msgOpaqueFormat      = "This file format cannot be displayed inline. Download the file to read it."
	msgExtractionFailure = "The file could not be converted for inline reading. Download it instead."
)

// ReadContent is the tagged result of a read request. Kind determines which
// payload fields are populated.
type ReadContent struct {
	Kind        ContentKind             `json:"kind"`
	Title       string                  `json:"title"`
	Chapters    []models.ChapterSummary `json:"chapters,omitempty"`
	Markup      string                  `json:"markup,omitempty"`
	Message     string                  `json:"message,omitempty"`
	FileName    string                  `json:"file_name,omitempty"`
	DownloadRef string                  `json:"download_ref,omitempty"`
}

// Resolver orchestrates a read request: entitlement check, classification,
// extraction, and the optional translation pass.
type Resolver struct {
	books      BookStore
	chapters   ChapterStore
	access     *EntitlementChecker
	registry   *extract.Registry
	translator Translator
	ebooks     EbookBuilder
}

// NewResolver creates a Resolver. translator and ebooks may be nil; the
// corresponding stages are then skipped (no translation, no generated EPUB
// downloads).
func NewResolver(
	books BookStore,
	chapters ChapterStore,
	access *EntitlementChecker,
	registry *extract.Registry,
	translator Translator,
	ebooks EbookBuilder,
) *Resolver {
	return &Resolver{
		books:      books,
		chapters:   chapters,
		access:     access,
		registry:   registry,
		translator: translator,
		ebooks:     ebooks,
	}
}

// GetReadContent resolves what the user gets when opening the book.
// Terminal failures are ErrAccessDenied and ErrBookNotFound. Extraction
// failures degrade to an opaque download offer; translation failures are
// absorbed by the translator and never block content delivery.
func (r *Resolver) GetReadContent(ctx context.Context, bookID, userID string, isAdmin bool, targetLang string) (*ReadContent, error) {
	ok, err := r.access.CanRead(ctx, userID, bookID, isAdmin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccessDenied
	}

	book, err := r.books.GetBookWithContent(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load book %s: %w", bookID, err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	chapters, err := r.chapters.GetChaptersForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chapters for book %s: %w", bookID, err)
	}

	c := Classify(book, chapters, r.registry)
	switch c.Kind {
	case KindEpisodic:
		return &ReadContent{Kind: KindEpisodic, Title: book.Title, Chapters: c.Chapters}, nil

	case KindEmpty:
		return &ReadContent{Kind: KindEmpty, Title: book.Title, Message: msgEmptyContent}, nil

	case KindOpaque:
		return r.opaque(book, msgOpaqueFormat), nil

	case KindRawText:
		extractor, _ := r.registry.For(c.FileName)
		markup, err := extractor.Extract(c.FileBytes)
		if err != nil {
			log.Printf("WARN (Resolver): extraction failed for book %s (%s): %v", book.ID, c.FileName, err)
			return r.opaque(book, msgExtractionFailure), nil
		}

		if targetLang != "" && r.translator != nil {
			markup, err = r.translator.Translate(ctx, markup, targetLang)
			if err != nil {
				return nil, fmt.Errorf("failed to translate content for book %s: %w", book.ID, err)
			}
		}
		return &ReadContent{Kind: KindRawText, Title: book.Title, Markup: markup}, nil
	}

	return nil, fmt.Errorf("unknown content classification %q for book %s", c.Kind, book.ID)
}

// TranslateChapter returns a chapter's body markup, translated into
// targetLang when one is requested, gated by the same entitlement check
// against the chapter's parent book.
func (r *Resolver) TranslateChapter(ctx context.Context, chapterID, userID string, isAdmin bool, targetLang string) (string, error) {
	chapter, err := r.chapters.GetChapterByID(ctx, chapterID)
	if err != nil {
		return "", fmt.Errorf("failed to load chapter %s: %w", chapterID, err)
	}
	if chapter == nil {
		return "", ErrChapterNotFound
	}

	ok, err := r.access.CanRead(ctx, userID, chapter.BookID, isAdmin)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAccessDenied
	}

	if targetLang == "" || r.translator == nil {
		return chapter.Body, nil
	}

	markup, err := r.translator.Translate(ctx, chapter.Body, targetLang)
	if err != nil {
		return "", fmt.Errorf("failed to translate chapter %s: %w", chapter.ID, err)
	}
	return markup, nil
}

// DownloadBlob returns the book's stored file and its name, gated by the
// read entitlement. A chaptered book without a stored file is packaged into
// an EPUB on the fly.
func (r *Resolver) DownloadBlob(ctx context.Context, bookID, userID string, isAdmin bool) ([]byte, string, error) {
	ok, err := r.access.CanRead(ctx, userID, bookID, isAdmin)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrAccessDenied
	}

	book, err := r.books.GetBookWithContent(ctx, bookID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load book %s: %w", bookID, err)
	}
	if book == nil {
		return nil, "", ErrBookNotFound
	}

	if book.HasFile() {
		return book.FileContent, book.FileName, nil
	}

	if r.ebooks == nil {
		return nil, "", ErrNoContent
	}

	summaries, err := r.chapters.GetChaptersForBook(ctx, bookID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load chapters for book %s: %w", bookID, err)
	}
	if len(summaries) == 0 {
		return nil, "", ErrNoContent
	}

	full := make([]models.Chapter, 0, len(summaries))
	for _, s := range summaries {
		chapter, err := r.chapters.GetChapterByID(ctx, s.ID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load chapter %s: %w", s.ID, err)
		}
		if chapter == nil {
			continue // deleted between listing and fetch
		}
		full = append(full, *chapter)
	}

	data, err := r.ebooks.FromChapters(book.Title, book.Author, full)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build epub for book %s: %w", book.ID, err)
	}
	return data, book.Title + ".epub", nil
}

func (r *Resolver) opaque(book *models.Book, message string) *ReadContent {
	return &ReadContent{
		Kind:        KindOpaque,
		Title:       book.Title,
		Message:     message,
		FileName:    book.FileName,
		DownloadRef: "/api/books/" + book.ID + "/download",
	}
}

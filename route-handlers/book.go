package routehandlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jaytaylor/html2text"

	"github.com/pageturn/biblio/datastore"
	"github.com/pageturn/biblio/models"
	"github.com/pageturn/biblio/storage"
	"github.com/pageturn/biblio/webutil"
)

const (
	maxUploadBytes = 64 << 20 // book file + cover image
	excerptMaxLen  = 280
)

// Holds dependencies for book catalog route handlers.
type BookHandler struct {
	Repo     *datastore.BookRepository
	Chapters *datastore.ChapterRepository
	Covers   storage.CoverStorer
}

// Creates a new BookHandler.
func NewBookHandler(repo *datastore.BookRepository, chapters *datastore.ChapterRepository, covers storage.CoverStorer) *BookHandler {
	return &BookHandler{Repo: repo, Chapters: chapters, Covers: covers}
}

func (h *BookHandler) HandleGetBooks(w http.ResponseWriter, r *http.Request) error {
	searchTerm := r.URL.Query().Get("q")
	categoryID := r.URL.Query().Get("category")

	books, err := h.Repo.GetBooks(r.Context(), searchTerm, categoryID)
	if err != nil {
		return fmt.Errorf("failed to retrieve books: %w", err)
	}
	if books == nil {
		books = []models.BookSummary{}
	}
	for i := range books {
		books[i].Excerpt = excerptFromMarkup(books[i].Excerpt)
	}
	webutil.RespondWithJSON(w, http.StatusOK, books)
	return nil
}

// bookDetails is the single-book response: catalog metadata plus a
// plain-text excerpt.
type bookDetails struct {
	models.Book
	Excerpt string `json:"excerpt,omitempty"`
}

func (h *BookHandler) HandleGetBook(w http.ResponseWriter, r *http.Request) error {
	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	book, err := h.Repo.GetBookByID(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Book not found")
		}
		return fmt.Errorf("failed to retrieve book %s: %w", bookID, err)
	}

	details := bookDetails{Book: *book, Excerpt: h.buildExcerpt(r, book)}
	webutil.RespondWithJSON(w, http.StatusOK, details)
	return nil
}

// buildExcerpt produces a short plain-text teaser from the description, or
// from the first chapter body when the description is empty. Best-effort;
// an empty excerpt is fine.
func (h *BookHandler) buildExcerpt(r *http.Request, book *models.Book) string {
	source := book.Description
	if source == "" {
		summaries, err := h.Chapters.GetChaptersForBook(r.Context(), book.ID)
		if err != nil || len(summaries) == 0 {
			return ""
		}
		chapter, err := h.Chapters.GetChapterByID(r.Context(), summaries[0].ID)
		if err != nil || chapter == nil {
			return ""
		}
		source = chapter.Body
	}

	return excerptFromMarkup(source)
}

// excerptFromMarkup strips markup and truncates to the excerpt length.
func excerptFromMarkup(markup string) string {
	if markup == "" {
		return ""
	}
	text, err := html2text.FromString(markup, html2text.Options{TextOnly: true})
	if err != nil {
		log.Printf("WARN (BookHandler): failed to build excerpt: %v", err)
		return ""
	}
	if utf8.RuneCountInString(text) > excerptMaxLen {
		text = string([]rune(text)[:excerptMaxLen]) + "…"
	}
	return text
}

// HandleCreateBook accepts a multipart form with metadata fields plus
// optional "file" (book content) and "cover" (image) parts. Admin only.
func (h *BookHandler) HandleCreateBook(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can create books")
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return webutil.ErrBadRequest("Invalid multipart form: " + err.Error())
	}

	book := models.Book{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if book.Title == "" {
		return webutil.ErrBadRequest("Missing required field (title)")
	}
	if authorID := r.FormValue("author_id"); authorID != "" {
		if _, err := uuid.Parse(authorID); err != nil {
			return webutil.ErrBadRequest("Invalid author_id format")
		}
		book.AuthorID = &authorID
	}

	if raw := r.FormValue("price_cents"); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || price < 0 {
			return webutil.ErrBadRequest("Invalid price_cents value")
		}
		book.PriceCents = price
	}
	if categoryID := r.FormValue("category_id"); categoryID != "" {
		if _, err := uuid.Parse(categoryID); err != nil {
			return webutil.ErrBadRequest("Invalid category_id format")
		}
		book.CategoryID = &categoryID
	}

	fileName, fileBytes, err := readFormFile(r, "file")
	if err != nil {
		return webutil.ErrBadRequest("Could not read uploaded file: " + err.Error())
	}
	if fileBytes != nil {
		book.FileName = fileName
		book.FileContent = fileBytes
		log.Printf("INFO (BookHandler): received content file '%s' (%d bytes, sha256=%s)",
			fileName, len(fileBytes), webutil.GenerateHash(fileBytes))
	}

	coverName, coverBytes, err := readFormFile(r, "cover")
	if err != nil {
		return webutil.ErrBadRequest("Could not read cover image: " + err.Error())
	}
	if coverBytes != nil {
		path, err := h.Covers.Store(book.ID, coverBytes, filepath.Ext(coverName))
		if err != nil {
			return webutil.ErrBadRequest("Could not store cover image: " + err.Error())
		}
		book.CoverPath = path
	}

	if err := h.Repo.CreateBook(r.Context(), &book); err != nil {
		return fmt.Errorf("failed to create book '%s': %w", book.Title, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, book)
	return nil
}

func (h *BookHandler) HandleUpdateBook(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can update books")
	}

	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	var req models.Book
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Title == "" {
		return webutil.ErrBadRequest("Missing required field (title)")
	}
	if req.AuthorID != nil {
		if _, err := uuid.Parse(*req.AuthorID); err != nil {
			return webutil.ErrBadRequest("Invalid author_id format")
		}
	}
	req.ID = bookID

	if err := h.Repo.UpdateBook(r.Context(), &req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Book not found")
		}
		return fmt.Errorf("failed to update book %s: %w", bookID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, req)
	return nil
}

// HandleUpdateBookFile replaces the stored content file. Admin only.
func (h *BookHandler) HandleUpdateBookFile(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can update book files")
	}

	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return webutil.ErrBadRequest("Invalid multipart form: " + err.Error())
	}
	fileName, fileBytes, err := readFormFile(r, "file")
	if err != nil {
		return webutil.ErrBadRequest("Could not read uploaded file: " + err.Error())
	}
	if fileBytes == nil {
		return webutil.ErrBadRequest("Missing file part")
	}

	if err := h.Repo.UpdateBookFile(r.Context(), bookID, fileName, fileBytes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Book not found")
		}
		return fmt.Errorf("failed to update file for book %s: %w", bookID, err)
	}

	log.Printf("INFO (BookHandler): replaced content file for book %s with '%s' (%d bytes)", bookID, fileName, len(fileBytes))
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *BookHandler) HandleDeleteBook(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can delete books")
	}

	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	if err := h.Repo.DeleteBook(r.Context(), bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Book not found")
		}
		return fmt.Errorf("failed to delete book %s: %w", bookID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// readFormFile reads an optional multipart file part. Returns (name, nil,
// nil) variants: a missing part is not an error.
func readFormFile(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, nil
		}
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

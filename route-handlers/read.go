package routehandlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pageturn/biblio/reading"
	"github.com/pageturn/biblio/webutil"
)

// Holds dependencies for the reading surface: inline read, chapter read,
// and gated downloads.
type ReadHandler struct {
	Resolver *reading.Resolver
}

// Creates a new ReadHandler.
func NewReadHandler(resolver *reading.Resolver) *ReadHandler {
	return &ReadHandler{Resolver: resolver}
}

// HandleGetReadContent serves GET /books/{id}/read. The optional "lang"
// query parameter requests machine translation of extracted markup.
func (h *ReadHandler) HandleGetReadContent(w http.ResponseWriter, r *http.Request) error {
	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	userID, _ := webutil.UserIDFromContext(r.Context())
	isAdmin := webutil.IsAdminFromContext(r.Context())
	targetLang := r.URL.Query().Get("lang")

	content, err := h.Resolver.GetReadContent(r.Context(), bookID, userID, isAdmin, targetLang)
	if err != nil {
		switch {
		case errors.Is(err, reading.ErrAccessDenied):
			return webutil.ErrForbidden("You do not have access to this book")
		case errors.Is(err, reading.ErrBookNotFound):
			return webutil.ErrNotFound("Book not found")
		}
		return fmt.Errorf("failed to resolve read content for book %s: %w", bookID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, content)
	return nil
}

// HandleReadChapter serves GET /chapters/{id}/read, optionally translated.
func (h *ReadHandler) HandleReadChapter(w http.ResponseWriter, r *http.Request) error {
	chapterID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(chapterID); err != nil {
		return webutil.ErrBadRequest("Invalid chapter ID format")
	}

	userID, _ := webutil.UserIDFromContext(r.Context())
	isAdmin := webutil.IsAdminFromContext(r.Context())
	targetLang := r.URL.Query().Get("lang")

	markup, err := h.Resolver.TranslateChapter(r.Context(), chapterID, userID, isAdmin, targetLang)
	if err != nil {
		switch {
		case errors.Is(err, reading.ErrAccessDenied):
			return webutil.ErrForbidden("You do not have access to this book")
		case errors.Is(err, reading.ErrChapterNotFound):
			return webutil.ErrNotFound("Chapter not found")
		}
		return fmt.Errorf("failed to read chapter %s: %w", chapterID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"markup": markup})
	return nil
}

// HandleDownload serves GET /books/{id}/download: the stored file as-is, or
// a generated EPUB for chaptered books without one.
func (h *ReadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) error {
	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	userID, _ := webutil.UserIDFromContext(r.Context())
	isAdmin := webutil.IsAdminFromContext(r.Context())

	data, fileName, err := h.Resolver.DownloadBlob(r.Context(), bookID, userID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, reading.ErrAccessDenied):
			return webutil.ErrForbidden("You do not have access to this book")
		case errors.Is(err, reading.ErrBookNotFound):
			return webutil.ErrNotFound("Book not found")
		case errors.Is(err, reading.ErrNoContent):
			return webutil.ErrNotFound("Book has no downloadable content")
		}
		return fmt.Errorf("failed to prepare download for book %s: %w", bookID, err)
	}

	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeOctetStream)
	w.Header().Set(webutil.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return nil
}

package routehandlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pageturn/biblio/datastore"
	"github.com/pageturn/biblio/models"
	"github.com/pageturn/biblio/webutil"
)

// Holds dependencies for chapter route handlers. Chapter bodies pass
// through the sanitizer on every write.
type ChapterHandler struct {
	Repo       *datastore.ChapterRepository
	bodyPolicy *bluemonday.Policy
}

// Creates a new ChapterHandler.
func NewChapterHandler(repo *datastore.ChapterRepository) *ChapterHandler {
	return &ChapterHandler{
		Repo:       repo,
		bodyPolicy: bluemonday.UGCPolicy(),
	}
}

// HandleGetChapters serves GET /books/{id}/chapters. The listing is public
// metadata only; bodies are gated behind the chapter read endpoint.
func (h *ChapterHandler) HandleGetChapters(w http.ResponseWriter, r *http.Request) error {
	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	chapters, err := h.Repo.GetChaptersForBook(r.Context(), bookID)
	if err != nil {
		return fmt.Errorf("failed to retrieve chapters for book %s: %w", bookID, err)
	}
	if chapters == nil {
		chapters = []models.ChapterSummary{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, chapters)
	return nil
}

func (h *ChapterHandler) HandleCreateChapter(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can create chapters")
	}

	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	var req models.Chapter
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Title == "" || req.Body == "" {
		return webutil.ErrBadRequest("Missing required fields (title, body)")
	}
	if req.Position < 0 {
		return webutil.ErrBadRequest("Position must not be negative")
	}

	req.ID = uuid.NewString()
	req.BookID = bookID
	req.CreatedAt = time.Now().UTC()
	req.Body = h.bodyPolicy.Sanitize(req.Body)

	if err := h.Repo.CreateChapter(r.Context(), &req); err != nil {
		return fmt.Errorf("failed to create chapter '%s': %w", req.Title, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, req)
	return nil
}

func (h *ChapterHandler) HandleUpdateChapter(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can update chapters")
	}

	chapterID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(chapterID); err != nil {
		return webutil.ErrBadRequest("Invalid chapter ID format")
	}

	var req models.Chapter
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Title == "" || req.Body == "" {
		return webutil.ErrBadRequest("Missing required fields (title, body)")
	}

	req.ID = chapterID
	req.Body = h.bodyPolicy.Sanitize(req.Body)

	if err := h.Repo.UpdateChapter(r.Context(), &req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Chapter not found")
		}
		return fmt.Errorf("failed to update chapter %s: %w", chapterID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, req)
	return nil
}

func (h *ChapterHandler) HandleDeleteChapter(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can delete chapters")
	}

	chapterID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(chapterID); err != nil {
		return webutil.ErrBadRequest("Invalid chapter ID format")
	}

	if err := h.Repo.DeleteChapter(r.Context(), chapterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Chapter not found")
		}
		return fmt.Errorf("failed to delete chapter %s: %w", chapterID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

package routehandlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pageturn/biblio/models"
	"github.com/pageturn/biblio/webutil"
)

// AuthorStore is the author persistence surface used by the handlers.
// *datastore.AuthorRepository satisfies it.
type AuthorStore interface {
	CreateAuthor(ctx context.Context, author *models.Author) error
	GetAuthors(ctx context.Context) ([]models.Author, error)
	GetAuthorByID(ctx context.Context, authorID string) (*models.Author, error)
	UpdateAuthor(ctx context.Context, author *models.Author) error
	DeleteAuthor(ctx context.Context, authorID string) error
}

// Holds dependencies for author route handlers.
type AuthorHandler struct {
	Store AuthorStore
}

// Creates a new AuthorHandler.
func NewAuthorHandler(store AuthorStore) *AuthorHandler {
	return &AuthorHandler{Store: store}
}

func (h *AuthorHandler) HandleGetAuthors(w http.ResponseWriter, r *http.Request) error {
	authors, err := h.Store.GetAuthors(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve authors: %w", err)
	}
	if authors == nil {
		authors = []models.Author{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, authors)
	return nil
}

func (h *AuthorHandler) HandleGetAuthor(w http.ResponseWriter, r *http.Request) error {
	authorID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(authorID); err != nil {
		return webutil.ErrBadRequest("Invalid author ID format")
	}

	author, err := h.Store.GetAuthorByID(r.Context(), authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Author not found")
		}
		return fmt.Errorf("failed to retrieve author %s: %w", authorID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, author)
	return nil
}

func (h *AuthorHandler) HandleCreateAuthor(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can create authors")
	}

	var req models.Author
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Name == "" {
		return webutil.ErrBadRequest("Author name must not be empty")
	}
	req.ID = uuid.NewString()

	if err := h.Store.CreateAuthor(r.Context(), &req); err != nil {
		return fmt.Errorf("failed to create author '%s': %w", req.Name, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, req)
	return nil
}

func (h *AuthorHandler) HandleUpdateAuthor(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can update authors")
	}

	authorID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(authorID); err != nil {
		return webutil.ErrBadRequest("Invalid author ID format")
	}

	var req models.Author
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Name == "" {
		return webutil.ErrBadRequest("Author name must not be empty")
	}
	req.ID = authorID

	if err := h.Store.UpdateAuthor(r.Context(), &req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Author not found")
		}
		return fmt.Errorf("failed to update author %s: %w", authorID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, req)
	return nil
}

func (h *AuthorHandler) HandleDeleteAuthor(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can delete authors")
	}

	authorID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(authorID); err != nil {
		return webutil.ErrBadRequest("Invalid author ID format")
	}

	if err := h.Store.DeleteAuthor(r.Context(), authorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Author not found")
		}
		return fmt.Errorf("failed to delete author %s: %w", authorID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

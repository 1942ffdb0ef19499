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

	"github.com/pageturn/biblio/datastore"
	"github.com/pageturn/biblio/models"
	"github.com/pageturn/biblio/webutil"
)

// Holds dependencies for comment route handlers.
type CommentHandler struct {
	Repo *datastore.CommentRepository
}

// Creates a new CommentHandler.
func NewCommentHandler(repo *datastore.CommentRepository) *CommentHandler {
	return &CommentHandler{Repo: repo}
}

func (h *CommentHandler) HandleGetComments(w http.ResponseWriter, r *http.Request) error {
	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	comments, err := h.Repo.GetCommentsForBook(r.Context(), bookID)
	if err != nil {
		return fmt.Errorf("failed to retrieve comments for book %s: %w", bookID, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, comments)
	return nil
}

func (h *CommentHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) error {
	userID, ok := webutil.UserIDFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("Sign in to leave a comment")
	}

	bookID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(bookID); err != nil {
		return webutil.ErrBadRequest("Invalid book ID format")
	}

	var req models.Comment
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Body == "" {
		return webutil.ErrBadRequest("Comment body must not be empty")
	}
	if err := validateRating(req.Rating); err != nil {
		return err
	}

	req.ID = uuid.NewString()
	req.BookID = bookID
	req.UserID = userID
	req.CreatedAt = time.Now().UTC()

	if err := h.Repo.CreateComment(r.Context(), &req); err != nil {
		return fmt.Errorf("failed to create comment on book %s: %w", bookID, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, req)
	return nil
}

// validateRating checks an optional star rating. Zero means unrated.
func validateRating(rating int) error {
	if rating == 0 {
		return nil
	}
	if rating < 1 || rating > 5 {
		return webutil.ErrBadRequest("Rating must be 1 to 5, or omitted")
	}
	return nil
}

// HandleDeleteComment allows the comment's author or an admin to remove it.
func (h *CommentHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) error {
	userID, ok := webutil.UserIDFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("Sign in to delete a comment")
	}

	commentID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(commentID); err != nil {
		return webutil.ErrBadRequest("Invalid comment ID format")
	}

	comment, err := h.Repo.GetCommentByID(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Comment not found")
		}
		return fmt.Errorf("failed to retrieve comment %s: %w", commentID, err)
	}

	if comment.UserID != userID && !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("You can only delete your own comments")
	}

	if err := h.Repo.DeleteComment(r.Context(), commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Comment not found")
		}
		return fmt.Errorf("failed to delete comment %s: %w", commentID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

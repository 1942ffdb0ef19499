package routehandlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pageturn/biblio/datastore"
	"github.com/pageturn/biblio/models"
	"github.com/pageturn/biblio/webutil"
)

// Holds dependencies for category route handlers.
type CategoryHandler struct {
	Repo *datastore.CategoryRepository
}

// Creates a new CategoryHandler.
func NewCategoryHandler(repo *datastore.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Repo: repo}
}

func (h *CategoryHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := h.Repo.GetCategories(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, categories)
	return nil
}

func (h *CategoryHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can create categories")
	}

	var req models.Category
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Name == "" {
		return webutil.ErrBadRequest("Category name must not be empty")
	}
	req.ID = uuid.NewString()

	if err := h.Repo.CreateCategory(r.Context(), &req); err != nil {
		return fmt.Errorf("failed to create category '%s': %w", req.Name, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, req)
	return nil
}

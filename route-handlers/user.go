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

// Holds dependencies for user route handlers.
type UserHandler struct {
	Repo         *datastore.UserRepository
	Entitlements *datastore.EntitlementRepository
}

// Creates a new UserHandler.
func NewUserHandler(repo *datastore.UserRepository, entitlements *datastore.EntitlementRepository) *UserHandler {
	return &UserHandler{Repo: repo, Entitlements: entitlements}
}

// HandleGetUsers lists all registered users. Admin only.
func (h *UserHandler) HandleGetUsers(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can list users")
	}

	users, err := h.Repo.GetUsers(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, users)
	return nil
}

// HandleCreateUser registers a user record mirrored from the upstream
// identity service. Admin only; day-to-day sign-up happens upstream.
func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can create users")
	}

	var req models.User
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Email == "" {
		return webutil.ErrBadRequest("Missing required field (email)")
	}
	switch req.Role {
	case models.UserRoleReader, models.UserRoleAdmin:
	case "":
		req.Role = models.UserRoleReader
	default:
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid role. Must be one of: %s, %s.",
			models.UserRoleReader, models.UserRoleAdmin))
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	} else if _, err := uuid.Parse(req.ID); err != nil {
		return webutil.ErrBadRequest("Invalid user ID format")
	}
	req.CreatedAt = time.Now().UTC()

	if err := h.Repo.CreateUser(r.Context(), &req); err != nil {
		return fmt.Errorf("failed to create user '%s': %w", req.Email, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, req)
	return nil
}

func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) error {
	userID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(userID); err != nil {
		return webutil.ErrBadRequest("Invalid user ID format")
	}

	callerID, _ := webutil.UserIDFromContext(r.Context())
	if callerID != userID && !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("You can only view your own profile")
	}

	user, err := h.Repo.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("User not found")
		}
		return fmt.Errorf("failed to retrieve user %s: %w", userID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

type grantRequest struct {
	BookID string `json:"book_id"`
}

// HandleGrantEntitlement grants a user read access to a book without a
// purchase (complimentary copies, support fixes). Admin only; idempotent.
func (h *UserHandler) HandleGrantEntitlement(w http.ResponseWriter, r *http.Request) error {
	if !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("Only administrators can grant access")
	}

	userID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(userID); err != nil {
		return webutil.ErrBadRequest("Invalid user ID format")
	}

	var req grantRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if _, err := uuid.Parse(req.BookID); err != nil {
		return webutil.ErrBadRequest("Invalid book_id format")
	}

	if err := h.Entitlements.Grant(r.Context(), userID, req.BookID); err != nil {
		return fmt.Errorf("failed to grant access to book %s for user %s: %w", req.BookID, userID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// HandleGetLibrary lists the books the user is entitled to read.
func (h *UserHandler) HandleGetLibrary(w http.ResponseWriter, r *http.Request) error {
	userID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(userID); err != nil {
		return webutil.ErrBadRequest("Invalid user ID format")
	}

	callerID, _ := webutil.UserIDFromContext(r.Context())
	if callerID != userID && !webutil.IsAdminFromContext(r.Context()) {
		return webutil.ErrForbidden("You can only view your own library")
	}

	library, err := h.Entitlements.GetLibrary(r.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve library for user %s: %w", userID, err)
	}
	if library == nil {
		library = []models.BookSummary{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, library)
	return nil
}

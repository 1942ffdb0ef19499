package routehandlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pageturn/biblio/datastore"
	"github.com/pageturn/biblio/models"
	"github.com/pageturn/biblio/notify"
	"github.com/pageturn/biblio/webutil"
)

// Holds dependencies for order route handlers. Receipts may be nil when no
// email provider is configured.
type OrderHandler struct {
	Repo     *datastore.OrderRepository
	Books    *datastore.BookRepository
	Users    *datastore.UserRepository
	Receipts *notify.ReceiptSender
}

// Creates a new OrderHandler.
func NewOrderHandler(
	repo *datastore.OrderRepository,
	books *datastore.BookRepository,
	users *datastore.UserRepository,
	receipts *notify.ReceiptSender,
) *OrderHandler {
	return &OrderHandler{Repo: repo, Books: books, Users: users, Receipts: receipts}
}

type createOrderRequest struct {
	BookID string `json:"book_id"`
}

// HandleCreateOrder records a purchase and grants the reading entitlement in
// one transaction. Payment itself is handled upstream; by the time this
// endpoint is called the charge has already settled.
func (h *OrderHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) error {
	userID, ok := webutil.UserIDFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("Sign in to purchase a book")
	}

	var req createOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if _, err := uuid.Parse(req.BookID); err != nil {
		return webutil.ErrBadRequest("Invalid book_id format")
	}

	book, err := h.Books.GetBookByID(r.Context(), req.BookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Book not found")
		}
		return fmt.Errorf("failed to retrieve book %s: %w", req.BookID, err)
	}

	order := models.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		BookID:     book.ID,
		PriceCents: book.PriceCents,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.Repo.CreateOrder(r.Context(), &order); err != nil {
		return fmt.Errorf("failed to create order for book %s: %w", book.ID, err)
	}

	h.sendReceipt(userID, book.Title, order.PriceCents)

	webutil.RespondWithJSON(w, http.StatusCreated, order)
	return nil
}

// sendReceipt emails a purchase confirmation in the background. A failed
// receipt never fails the order.
func (h *OrderHandler) sendReceipt(userID, bookTitle string, priceCents int64) {
	if h.Receipts == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		user, err := h.Users.GetUserByID(ctx, userID)
		if err != nil {
			log.Printf("WARN (OrderHandler): could not look up user %s for receipt: %v", userID, err)
			return
		}
		if err := h.Receipts.SendReceipt(ctx, user.Email, bookTitle, priceCents); err != nil {
			log.Printf("WARN (OrderHandler): failed to send receipt to %s: %v", user.Email, err)
			return
		}
		log.Printf("INFO (OrderHandler): receipt sent to %s for '%s'", user.Email, bookTitle)
	}()
}

// HandleGetOrders lists the authenticated user's purchase history.
func (h *OrderHandler) HandleGetOrders(w http.ResponseWriter, r *http.Request) error {
	userID, ok := webutil.UserIDFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("Sign in to view orders")
	}

	orders, err := h.Repo.GetOrdersForUser(r.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve orders for user %s: %w", userID, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, orders)
	return nil
}

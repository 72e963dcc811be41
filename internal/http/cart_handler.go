package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hoanghieund/sale-project-sub002/internal/repository"
	"github.com/hoanghieund/sale-project-sub002/internal/service"
	"go.uber.org/zap"
)

type CartService interface {
	View(ctx context.Context, userID string) (*service.CartView, error)
	AddItem(ctx context.Context, userID string, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID int64) error
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
	log     *zap.Logger
}

func NewCartHandler(carts CartService, timeout time.Duration, log *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
		log:     log,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.carts.View(ctx, getUserID(r.Context()))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserID(r.Context())
	if userID == "" {
		handleError(w, r, h.log, service.ErrMissingUser)
		return
	}

	var req AddItemRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive", "")
		return
	}

	if err := h.carts.AddItem(ctx, userID, req.ProductID, req.Quantity); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.respondView(ctx, w, r, http.StatusCreated, userID)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserID(r.Context())
	if userID == "" {
		handleError(w, r, h.log, service.ErrMissingUser)
		return
	}

	productID, err := productIDParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.carts.UpdateQuantity(ctx, userID, productID, req.Quantity); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.respondView(ctx, w, r, http.StatusOK, userID)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserID(r.Context())
	if userID == "" {
		handleError(w, r, h.log, service.ErrMissingUser)
		return
	}

	productID, err := productIDParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.carts.RemoveItem(ctx, userID, productID); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.respondView(ctx, w, r, http.StatusOK, userID)
}

// ClearCart is idempotent: clearing a cart that does not exist succeeds.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.carts.ClearCart(ctx, getUserID(r.Context()))
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) respondView(ctx context.Context, w http.ResponseWriter, r *http.Request, status int, userID string) {
	view, err := h.carts.View(ctx, userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, status, view)
}

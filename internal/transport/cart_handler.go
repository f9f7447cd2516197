package transport

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartMutationRequest carries the client-held cart plus one change to
// reconcile against the live catalog.
type CartMutationRequest struct {
	Items     []domain.CartItem `json:"items"`
	ProductID string            `json:"productId" validate:"required,uuid"`
	Quantity  int               `json:"quantity" validate:"omitempty,gte=1"`
}

// CartResponse returns the reconciled cart together with its quote
type CartResponse struct {
	Items []domain.CartItem `json:"items"`
	Quote pricing.Quote     `json:"quote"`
}

// CartHandler reconciles client-held carts. The cart itself is never
// persisted server-side; it travels in the request and response.
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Post("/add", h.AddItem)
		r.Post("/update", h.SetQuantity)
		r.Post("/remove", h.RemoveItem)
	})
}

// AddItem merges quantity units of a product into the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, h.cartService.AddItem)
}

// SetQuantity replaces a cart line's quantity with an explicit value
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, h.cartService.SetQuantity)
}

// reconcile decodes the mutation, applies op and responds with the updated
// cart and a fresh quote.
func (h *CartHandler) reconcile(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, cart domain.Cart, productID uuid.UUID, quantity int) (domain.Cart, error),
) {
	var req CartMutationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	cart, err := op(r.Context(), domain.Cart{Items: req.Items}, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrOutOfStock) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, service.ErrInvalidQuantity) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Cart reconciliation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Items: cart.Items,
		Quote: h.cartService.Quote(cart),
	})
}

// RemoveItem drops a product from the cart; removing an absent product is a
// no-op.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req CartMutationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	cart := h.cartService.RemoveItem(domain.Cart{Items: req.Items}, productID)

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Items: cart.Items,
		Quote: h.cartService.Quote(cart),
	})
}

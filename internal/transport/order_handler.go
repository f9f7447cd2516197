package transport

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOrderRequest represents the checkout payload. Any client-computed
// amounts in the body are ignored; the server reprices the submitted lines.
type CreateOrderRequest struct {
	OrderItems      []domain.CartItem      `json:"orderItems" validate:"required,min=1"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMode     string                 `json:"paymentMode" validate:"required,oneof=PayPal Stripe CashOnDelivery"`
}

// PayOrderRequest carries the external payment capture confirmation
type PayOrderRequest struct {
	ExternalID string `json:"externalId" validate:"required"`
	Status     string `json:"status" validate:"required"`
	PayerEmail string `json:"payerEmail" validate:"omitempty,email"`
}

// OrderHandler handles HTTP requests for the order lifecycle
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes. Every route requires an
// authenticated principal; deliver additionally requires admin.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/", h.Create)
		r.Get("/history", h.History)
		r.Get("/{id}", h.Get)
		r.Put("/{id}/pay", h.Pay)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Put("/{id}/deliver", h.Deliver)
		})
	})
}

// Create commits the submitted cart into an immutable order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.Create(r.Context(), principal.ID, req.OrderItems, req.ShippingAddress, domain.PaymentMode(req.PaymentMode))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidPaymentMode),
			errors.Is(err, service.ErrInvalidShippingAddress),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrDuplicateCartLine):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Order creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", principal.ID.String()),
		zap.Float64("total_price", order.TotalPrice),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// History returns the caller's orders, newest first
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.History(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("Failed to list order history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Get returns a single order to its owner or an admin
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.orderService.Get(r.Context(), id, principal.ID, principal.IsAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		if errors.Is(err, service.ErrNotOrderOwner) {
			middleware.RespondWithError(w, http.StatusForbidden, "access denied")
			return
		}

		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Pay records the payment capture on an unpaid order
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req PayOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.MarkPaid(r.Context(), id, principal.ID, principal.IsAdmin, domain.PaymentResult{
		ExternalID: req.ExternalID,
		Status:     req.Status,
		PayerEmail: req.PayerEmail,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		if errors.Is(err, service.ErrNotOrderOwner) {
			middleware.RespondWithError(w, http.StatusForbidden, "access denied")
			return
		}
		if errors.Is(err, repository.ErrOrderAlreadyPaid) {
			middleware.RespondWithError(w, http.StatusConflict, "order is already paid")
			return
		}

		h.logger.Error("Failed to mark order paid", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to pay order")
		return
	}

	h.logger.Info("Order paid", zap.String("order_id", order.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Deliver marks a paid order as delivered (admin)
func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.orderService.MarkDelivered(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		if errors.Is(err, repository.ErrOrderAlreadyDelivered) {
			middleware.RespondWithError(w, http.StatusConflict, "order is already delivered")
			return
		}

		h.logger.Error("Failed to mark order delivered", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to deliver order")
		return
	}

	h.logger.Info("Order delivered", zap.String("order_id", order.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

package transport

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateProductRequest represents the admin product edit payload
type UpdateProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Slug         string  `json:"slug" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	Brand        string  `json:"brand" validate:"required"`
	Image        string  `json:"image" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
	Description  string  `json:"description" validate:"required"`
	IsFeatured   bool    `json:"isFeatured"`
}

// UpdateUserRequest represents the admin user edit payload
type UpdateUserRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	IsAdmin bool   `json:"isAdmin"`
}

// ProductListResponse pages the admin product table
type ProductListResponse struct {
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
}

// AdminHandler handles the admin management surface. Every route sits
// behind authentication plus the admin check.
type AdminHandler struct {
	catalogService service.CatalogService
	userService    service.UserService
	orderService   service.OrderService
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	catalogService service.CatalogService,
	userService service.UserService,
	orderService service.OrderService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		userService:    userService,
		orderService:   orderService,
		logger:         logger,
	}
}

// RegisterRoutes registers all admin routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireAdmin)

		r.Get("/summary", h.Summary)
		r.Get("/orders", h.ListOrders)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})
	})
}

// Summary returns the dashboard aggregates and daily sales buckets
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orderService.Summary(r.Context())
	if err != nil {
		h.logger.Error("Failed to build sales summary", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// ListOrders returns every order with owner names. With ?sales=true only
// paid orders are included.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	paidOnly := r.URL.Query().Get("sales") == "true"

	orders, err := h.orderService.ListAll(r.Context(), paidOnly)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListProducts pages the full catalog for the admin table
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	products, total, err := h.catalogService.List(r.Context(), "", "", page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Total:    total,
		Page:     page,
	})
}

// CreateProduct seeds a placeholder product for subsequent editing
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogService.CreatePlaceholder(r.Context())
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct applies an admin edit to a product
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.Update(r.Context(), &domain.Product{
		ID:           id,
		Name:         req.Name,
		Slug:         req.Slug,
		Category:     req.Category,
		Brand:        req.Brand,
		Image:        req.Image,
		Price:        req.Price,
		CountInStock: req.CountInStock,
		Description:  req.Description,
		IsFeatured:   req.IsFeatured,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		if errors.Is(err, repository.ErrSlugTaken) {
			middleware.RespondWithError(w, http.StatusConflict, "slug is already in use")
			return
		}

		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// ListUsers returns every registered user
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, users)
}

// GetUser returns a single user by ID
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error("Failed to get user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateUser renames a user or toggles the admin flag
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, req.Name, req.IsAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error("Failed to update user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user account
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error("Failed to delete user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

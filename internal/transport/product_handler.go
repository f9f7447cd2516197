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

// SubmitReviewRequest represents the review submission payload
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

// ReviewListResponse pairs the reviews with the current aggregate rating
type ReviewListResponse struct {
	Reviews []*domain.Review `json:"reviews"`
	Rating  float64          `json:"rating"`
}

// ProductHandler handles HTTP requests for catalog browsing and reviews
type ProductHandler struct {
	catalogService service.CatalogService
	reviewService  service.ReviewService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, reviewService service.ReviewService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		reviewService:  reviewService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/featured", h.Featured)
		r.Get("/categories", h.Categories)
		r.Get("/filters", h.Filters)
		r.Get("/slug/{slug}", h.GetBySlug)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/reviews", h.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/{id}/reviews", h.SubmitReview)
		})
	})
}

// List returns products matching the optional text query and category filter
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	products, _, err := h.catalogService.List(r.Context(), query, category, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Featured returns the featured products for the home page carousel
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.catalogService.Featured(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list featured products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list featured products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Categories returns the distinct product categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.Categories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Filters returns the search filter metadata (categories and brands)
func (h *ProductHandler) Filters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.catalogService.Filters(r.Context())
	if err != nil {
		h.logger.Error("Failed to load search filters", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load search filters")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, filters)
}

// Get returns a single product by ID
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// GetBySlug returns a single product by its URL slug
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalogService.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to get product by slug", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListReviews returns a product's reviews newest first plus its rating
func (h *ProductHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	reviews, rating, err := h.reviewService.List(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to list reviews", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReviewListResponse{Reviews: reviews, Rating: rating})
}

// SubmitReview creates or updates the caller's review for a product
func (h *ProductHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req SubmitReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.reviewService.Submit(r.Context(), id, principal.ID, principal.Name, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		if errors.Is(err, service.ErrInvalidRating) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.Error("Failed to submit review", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit review")
		return
	}

	if created {
		middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "review created"})
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "review updated"})
}

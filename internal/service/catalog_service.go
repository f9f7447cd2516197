package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SearchFilters holds the metadata the storefront search UI filters by.
type SearchFilters struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}

// CatalogService owns product browsing and the admin mutation paths.
type CatalogService interface {
	List(ctx context.Context, query, category string, page, pageSize int) ([]*domain.Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Featured(ctx context.Context, limit int) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Filters(ctx context.Context) (*SearchFilters, error)
	CreatePlaceholder(ctx context.Context) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) List(ctx context.Context, query, category string, page, pageSize int) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.productRepo.List(ctx, query, category, page, pageSize)
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.productRepo.FindBySlug(ctx, slug)
}

func (s *catalogService) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit < 1 || limit > 20 {
		limit = 4
	}
	return s.productRepo.Featured(ctx, limit)
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// Filters fetches categories and brands concurrently; the two reads are
// independent.
func (s *catalogService) Filters(ctx context.Context) (*SearchFilters, error) {
	filters := &SearchFilters{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories, err := s.productRepo.Categories(ctx)
		if err != nil {
			return err
		}
		filters.Categories = categories
		return nil
	})
	g.Go(func() error {
		brands, err := s.productRepo.Brands(ctx)
		if err != nil {
			return err
		}
		filters.Brands = brands
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

// CreatePlaceholder seeds a fresh product with placeholder values for the
// admin to edit afterwards. The random slug suffix keeps repeated creates
// from colliding on the unique slug index.
func (s *catalogService) CreatePlaceholder(ctx context.Context) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:           uuid.New(),
		Name:         "Sample product",
		Slug:         fmt.Sprintf("sample-product-%s", uuid.New().String()[:8]),
		Category:     "Sample category",
		Brand:        "Sample brand",
		Image:        "/images/placeholder.jpg",
		Price:        0,
		CountInStock: 0,
		Description:  "Sample description",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update applies an admin edit. Rating and review counts are derived data
// and never pass through here.
func (s *catalogService) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	existing.Name = product.Name
	existing.Slug = product.Slug
	existing.Category = product.Category
	existing.Brand = product.Brand
	existing.Image = product.Image
	existing.Price = product.Price
	existing.CountInStock = product.CountInStock
	existing.Description = product.Description
	existing.IsFeatured = product.IsFeatured
	existing.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

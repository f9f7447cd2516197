package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
}

func newStubProductRepository() *stubProductRepository {
	return &stubProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (s *stubProductRepository) add(price float64, stock int) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.Product{
		ID:           uuid.New(),
		Name:         "Widget",
		Slug:         "widget-" + uuid.New().String()[:8],
		Price:        price,
		CountInStock: stock,
	}
	s.products[p.ID] = p
	return p
}

func (s *stubProductRepository) Create(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepository) Update(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, exists := s.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *stubProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, product := range s.products {
		if product.Slug == slug {
			copied := *product
			return &copied, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (s *stubProductRepository) List(ctx context.Context, query, category string, page, pageSize int) ([]*domain.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]*domain.Product, 0, len(s.products))
	for _, product := range s.products {
		copied := *product
		products = append(products, &copied)
	}
	return products, len(products), nil
}

func (s *stubProductRepository) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	return nil, nil
}

func (s *stubProductRepository) Categories(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (s *stubProductRepository) Brands(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newTestCartHandler() (*CartHandler, *stubProductRepository) {
	products := newStubProductRepository()
	handler := NewCartHandler(service.NewCartService(products), zap.NewNop())
	return handler, products
}

func decodeCartResponse(t *testing.T, body []byte) CartResponse {
	t.Helper()
	var resp CartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	return resp
}

func TestCartHandler_AddItemQuotesTheCart(t *testing.T) {
	handler, products := newTestCartHandler()
	product := products.add(10, 5)

	rec := postJSON(handler.AddItem, "/api/cart/add", CartMutationRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("AddItem failed with %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeCartResponse(t, rec.Body.Bytes())
	if len(resp.Items) != 1 || resp.Items[0].Quantity != 2 {
		t.Fatalf("expected one line of 2, got %+v", resp.Items)
	}
	if resp.Items[0].Price != 10 {
		t.Errorf("line must snapshot the live price, got %v", resp.Items[0].Price)
	}
	if resp.Quote.ItemsPrice != 20 || resp.Quote.TotalPrice == 0 {
		t.Errorf("quote not computed: %+v", resp.Quote)
	}
}

func TestCartHandler_AddItemMergesExistingLine(t *testing.T) {
	handler, products := newTestCartHandler()
	product := products.add(10, 5)

	rec := postJSON(handler.AddItem, "/api/cart/add", CartMutationRequest{
		Items: []domain.CartItem{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  2,
		}},
		ProductID: product.ID.String(),
		Quantity:  3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("AddItem failed with %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeCartResponse(t, rec.Body.Bytes())
	if len(resp.Items) != 1 || resp.Items[0].Quantity != 5 {
		t.Errorf("expected a single merged line of 5, got %+v", resp.Items)
	}
}

func TestCartHandler_AddItemRejectsExcessQuantity(t *testing.T) {
	handler, products := newTestCartHandler()
	product := products.add(10, 3)

	rec := postJSON(handler.AddItem, "/api/cart/add", CartMutationRequest{
		ProductID: product.ID.String(),
		Quantity:  4,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when quantity exceeds stock, got %d", rec.Code)
	}
}

func TestCartHandler_UnknownProductIsNotFound(t *testing.T) {
	handler, _ := newTestCartHandler()

	rec := postJSON(handler.AddItem, "/api/cart/add", CartMutationRequest{
		ProductID: uuid.New().String(),
		Quantity:  1,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", rec.Code)
	}
}

func TestCartHandler_MalformedProductIDIsRejected(t *testing.T) {
	handler, _ := newTestCartHandler()

	rec := postJSON(handler.AddItem, "/api/cart/add", CartMutationRequest{
		ProductID: "not-a-uuid",
		Quantity:  1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed product id, got %d", rec.Code)
	}
}

func TestCartHandler_RemoveIsNoOpSafe(t *testing.T) {
	handler, products := newTestCartHandler()
	product := products.add(10, 5)

	rec := postJSON(handler.RemoveItem, "/api/cart/remove", CartMutationRequest{
		Items: []domain.CartItem{{
			ProductID: product.ID,
			Price:     product.Price,
			Quantity:  1,
		}},
		ProductID: uuid.New().String(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("RemoveItem failed with %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeCartResponse(t, rec.Body.Bytes())
	if len(resp.Items) != 1 {
		t.Errorf("removing an absent product must leave the cart intact, got %+v", resp.Items)
	}

	rec = postJSON(handler.RemoveItem, "/api/cart/remove", CartMutationRequest{
		Items:     resp.Items,
		ProductID: product.ID.String(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("RemoveItem failed with %d", rec.Code)
	}
	resp = decodeCartResponse(t, rec.Body.Bytes())
	if len(resp.Items) != 0 {
		t.Errorf("expected an empty cart after removal, got %+v", resp.Items)
	}
}

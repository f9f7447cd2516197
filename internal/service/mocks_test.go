package service

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories backing the service tests.

type mockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) put(p *domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *p
	m.products[p.ID] = &copied
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == product.Slug {
			return repository.ErrSlugTaken
		}
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	for id, p := range m.products {
		if id != product.ID && p.Slug == product.Slug {
			return repository.ErrSlugTaken
		}
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context, query, category string, page, pageSize int) ([]*domain.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Product
	for _, p := range m.products {
		if category != "" && p.Category != category {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (m *mockProductRepository) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Product
	for _, p := range m.products {
		if p.IsFeatured && len(out) < limit {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockProductRepository) Categories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range m.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (m *mockProductRepository) Brands(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range m.products {
		if !seen[p.Brand] {
			seen[p.Brand] = true
			out = append(out, p.Brand)
		}
	}
	return out, nil
}

type mockOrderRepository struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
	stock  *mockProductRepository
}

func newMockOrderRepository(stock *mockProductRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[uuid.UUID]*domain.Order),
		stock:  stock,
	}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stock != nil {
		m.stock.mu.Lock()
		for _, item := range order.Items {
			p, ok := m.stock.products[item.ProductID]
			if !ok {
				m.stock.mu.Unlock()
				return repository.ErrProductNotFound
			}
			if p.CountInStock < item.Quantity {
				m.stock.mu.Unlock()
				return repository.ErrInsufficientStock
			}
		}
		for _, item := range order.Items {
			m.stock.products[item.ProductID].CountInStock -= item.Quantity
		}
		m.stock.mu.Unlock()
	}

	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *o
	copied.Items = append([]domain.OrderItem(nil), o.Items...)
	return &copied, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) ListAll(ctx context.Context, paidOnly bool) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if paidOnly && !o.IsPaid {
			continue
		}
		copied := *o
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, result *domain.PaymentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if o.IsPaid {
		return repository.ErrOrderAlreadyPaid
	}
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = result
	return nil
}

func (m *mockOrderRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if o.IsDelivered {
		return repository.ErrOrderAlreadyDelivered
	}
	now := time.Now()
	o.IsDelivered = true
	o.DeliveredAt = &now
	return nil
}

func (m *mockOrderRepository) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := &domain.SalesSummary{OrdersCount: len(m.orders)}
	for _, o := range m.orders {
		summary.OrdersPrice += o.TotalPrice
	}
	return summary, nil
}

type mockReviewRepository struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]map[uuid.UUID]*domain.Review // productID -> userID -> review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: make(map[uuid.UUID]map[uuid.UUID]*domain.Review)}
}

func (m *mockReviewRepository) Submit(ctx context.Context, review *domain.Review) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byUser, ok := m.reviews[review.ProductID]
	if !ok {
		byUser = make(map[uuid.UUID]*domain.Review)
		m.reviews[review.ProductID] = byUser
	}
	existing, ok := byUser[review.UserID]
	if ok {
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		existing.UpdatedAt = review.UpdatedAt
		return false, nil
	}
	copied := *review
	byUser[review.UserID] = &copied
	return true, nil
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Review
	var sum float64
	for _, r := range m.reviews[productID] {
		copied := *r
		out = append(out, &copied)
		sum += float64(r.Rating)
	}
	if len(out) == 0 {
		return out, 0, nil
	}
	return out, sum / float64(len(out)), nil
}

type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	copied := *user
	m.users[user.Email] = &copied
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, existing := range m.users {
		if existing.ID == user.ID {
			if email != user.Email {
				if _, taken := m.users[user.Email]; taken {
					return repository.ErrUserAlreadyExists
				}
				delete(m.users, email)
			}
			copied := *user
			m.users[user.Email] = &copied
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, existing := range m.users {
		if existing.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, u := range m.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

type mockSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*domain.Session)}
}

func (m *mockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.Token] = &copied
	return nil
}

func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[token]
	if !exists {
		return nil, repository.ErrSessionNotFound
	}
	if session.Revoked {
		return nil, repository.ErrSessionRevoked
	}
	copied := *session
	return &copied, nil
}

func (m *mockSessionRepository) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[token]
	if !exists {
		return repository.ErrSessionNotFound
	}
	session.Revoked = true
	return nil
}

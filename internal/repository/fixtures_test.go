package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

func insertTestUser(t *testing.T, name string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        uuid.New().String()[:8] + "@example.com",
		PasswordHash: "$2a$10$fakehashfortestingonly000000000000000000000000000000",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := NewUserRepository(testDB).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to insert test user: %v", err)
	}
	return user
}

func insertTestProduct(t *testing.T, price float64, stock int) *domain.Product {
	t.Helper()
	now := time.Now()
	product := &domain.Product{
		ID:           uuid.New(),
		Name:         "Test Product",
		Slug:         "test-product-" + uuid.New().String()[:8],
		Category:     "Test Category",
		Brand:        "Test Brand",
		Image:        "/images/test.jpg",
		Price:        price,
		CountInStock: stock,
		Description:  "test",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := NewProductRepository(testDB).Create(context.Background(), product); err != nil {
		t.Fatalf("failed to insert test product: %v", err)
	}
	return product
}

func buildTestOrder(user *domain.User, product *domain.Product, qty int) *domain.Order {
	now := time.Now()
	order := &domain.Order{
		ID:     uuid.New(),
		UserID: user.ID,
		ShippingAddress: domain.ShippingAddress{
			FullName:   user.Name,
			Address:    "123 Main St",
			City:       "Springfield",
			PostalCode: "12345",
			Country:    "USA",
		},
		PaymentMode:   domain.PaymentModePayPal,
		ItemsPrice:    product.Price * float64(qty),
		ShippingPrice: 15,
		TaxPrice:      product.Price * float64(qty) * 0.15,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.TotalPrice = order.ItemsPrice + order.ShippingPrice + order.TaxPrice
	order.Items = []domain.OrderItem{{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Image:     product.Image,
		Price:     product.Price,
		Quantity:  qty,
	}}
	return order
}

func productStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var stock int
	if err := testDB.QueryRow("SELECT count_in_stock FROM products WHERE id = $1", id).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return stock
}

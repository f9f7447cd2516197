package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart              = errors.New("cart must contain at least one item")
	ErrInvalidPaymentMode     = errors.New("payment mode is not supported")
	ErrInvalidShippingAddress = errors.New("shipping address is incomplete")
	ErrDuplicateCartLine      = errors.New("cart contains the same product twice")
	ErrNotOrderOwner          = errors.New("order belongs to another user")
)

// OrderService drives the order lifecycle: commit a priced cart into an
// immutable order, then advance it through the paid and delivered
// transitions.
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, items []domain.CartItem, address domain.ShippingAddress, mode domain.PaymentMode) (*domain.Order, error)
	Get(ctx context.Context, orderID, requesterID uuid.UUID, requesterAdmin bool) (*domain.Order, error)
	History(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context, paidOnly bool) ([]*domain.Order, error)
	MarkPaid(ctx context.Context, orderID, requesterID uuid.UUID, requesterAdmin bool, result domain.PaymentResult) (*domain.Order, error)
	MarkDelivered(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	Summary(ctx context.Context) (*domain.SalesSummary, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// Create commits the supplied cart snapshot into an order. Amounts are
// always recomputed here from the submitted lines; any client-side totals
// are ignored. The snapshot prices are what the customer agreed to pay, so
// they are used as-is even if the catalog has moved since reconciliation.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, items []domain.CartItem, address domain.ShippingAddress, mode domain.PaymentMode) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if !mode.Valid() {
		return nil, ErrInvalidPaymentMode
	}

	if err := validateShippingAddress(address); err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]bool{}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if seen[item.ProductID] {
			return nil, ErrDuplicateCartLine
		}
		seen[item.ProductID] = true
	}

	quote := pricing.Price(items)

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		ShippingAddress: address,
		PaymentMode:     mode,
		ItemsPrice:      quote.ItemsPrice,
		ShippingPrice:   quote.ShippingPrice,
		TaxPrice:        quote.TaxPrice,
		TotalPrice:      quote.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Slug:      item.Slug,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func validateShippingAddress(address domain.ShippingAddress) error {
	for _, field := range []string{
		address.FullName,
		address.Address,
		address.City,
		address.PostalCode,
		address.Country,
	} {
		if strings.TrimSpace(field) == "" {
			return ErrInvalidShippingAddress
		}
	}
	return nil
}

// Get returns the order only to its owner or an admin
func (s *orderService) Get(ctx context.Context, orderID, requesterID uuid.UUID, requesterAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID && !requesterAdmin {
		return nil, ErrNotOrderOwner
	}

	return order, nil
}

// History returns all orders owned by userID
func (s *orderService) History(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// ListAll returns every order with owner names populated (admin)
func (s *orderService) ListAll(ctx context.Context, paidOnly bool) ([]*domain.Order, error) {
	return s.orderRepo.ListAll(ctx, paidOnly)
}

// MarkPaid records the payment capture. The requester must own the order or
// be an admin; a replay fails with repository.ErrOrderAlreadyPaid.
func (s *orderService) MarkPaid(ctx context.Context, orderID, requesterID uuid.UUID, requesterAdmin bool, result domain.PaymentResult) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID && !requesterAdmin {
		return nil, ErrNotOrderOwner
	}

	if err := s.orderRepo.MarkPaid(ctx, orderID, &result); err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, orderID)
}

// MarkDelivered advances the order to delivered. Admin access is enforced
// at the route; a replay fails with repository.ErrOrderAlreadyDelivered.
func (s *orderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	if err := s.orderRepo.MarkDelivered(ctx, orderID); err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, orderID)
}

// Summary aggregates the admin dashboard figures
func (s *orderService) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	return s.orderRepo.Summary(ctx)
}

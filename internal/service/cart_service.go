package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrOutOfStock      = errors.New("requested quantity exceeds available stock")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// CartService reconciles a client-held cart against the live catalog. It is
// stateless: the cart travels in the request and back out in the response.
type CartService interface {
	// AddItem adds quantity units of a product, merging into an existing
	// line if the product is already in the cart.
	AddItem(ctx context.Context, cart domain.Cart, productID uuid.UUID, quantity int) (domain.Cart, error)
	// SetQuantity replaces a line's quantity with an explicit value.
	SetQuantity(ctx context.Context, cart domain.Cart, productID uuid.UUID, quantity int) (domain.Cart, error)
	// RemoveItem drops a line. Removing an absent product is a no-op.
	RemoveItem(cart domain.Cart, productID uuid.UUID) domain.Cart
	// Quote prices the cart as-is.
	Quote(cart domain.Cart) pricing.Quote
}

type cartService struct {
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(productRepo repository.ProductRepository) CartService {
	return &cartService{productRepo: productRepo}
}

func (s *cartService) AddItem(ctx context.Context, cart domain.Cart, productID uuid.UUID, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return cart, ErrInvalidQuantity
	}

	requested := quantity
	if i := cart.Find(productID); i >= 0 {
		requested += cart.Items[i].Quantity
	}

	return s.reconcile(ctx, cart, productID, requested)
}

func (s *cartService) SetQuantity(ctx context.Context, cart domain.Cart, productID uuid.UUID, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return cart, ErrInvalidQuantity
	}

	return s.reconcile(ctx, cart, productID, quantity)
}

// reconcile checks the requested quantity against a single authoritative
// product read and, on acceptance, writes the line back with the current
// price and stock snapshot. On rejection the cart is returned unchanged.
func (s *cartService) reconcile(ctx context.Context, cart domain.Cart, productID uuid.UUID, requested int) (domain.Cart, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return cart, repository.ErrProductNotFound
		}
		return cart, fmt.Errorf("failed to read product: %w", err)
	}

	if requested > product.CountInStock {
		return cart, fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}

	item := domain.CartItem{
		ProductID:    product.ID,
		Name:         product.Name,
		Slug:         product.Slug,
		Image:        product.Image,
		Price:        product.Price,
		CountInStock: product.CountInStock,
		Quantity:     requested,
	}

	if i := cart.Find(productID); i >= 0 {
		cart.Items[i] = item
	} else {
		cart.Items = append(cart.Items, item)
	}

	return cart, nil
}

func (s *cartService) RemoveItem(cart domain.Cart, productID uuid.UUID) domain.Cart {
	if i := cart.Find(productID); i >= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	}
	return cart
}

func (s *cartService) Quote(cart domain.Cart) pricing.Quote {
	return pricing.Price(cart.Items)
}

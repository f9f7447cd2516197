package pricing

import (
	"math"

	"storefront/internal/domain"
)

const (
	// TaxRate is the flat tax applied to the item subtotal.
	TaxRate = 0.15

	// FlatShippingPrice is charged unless the subtotal clears the free
	// shipping threshold.
	FlatShippingPrice     = 15.00
	FreeShippingThreshold = 200.00

	// epsilon absorbs binary floating-point representation error before
	// rounding, so 1.005*100 = 100.49999... still rounds up.
	epsilon = 1e-9
)

// Quote holds the computed amounts for a cart. The same amounts are frozen
// onto an order at creation time.
type Quote struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// Round2 rounds half-up to two decimal places.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5+epsilon) / 100
}

// Price computes the quote for a list of cart items. Line totals are summed
// unrounded and only the aggregate is rounded. Price is a pure function:
// identical input always yields an identical quote.
func Price(items []domain.CartItem) Quote {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}

	itemsPrice := Round2(sum)

	shippingPrice := FlatShippingPrice
	if itemsPrice > FreeShippingThreshold {
		shippingPrice = 0
	}

	taxPrice := Round2(itemsPrice * TaxRate)

	return Quote{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    Round2(itemsPrice + shippingPrice + taxPrice),
	}
}

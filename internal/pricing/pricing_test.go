package pricing

import (
	"testing"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact cents", 19.99, 19.99},
		{"half rounds up", 1.005, 1.01},
		{"third decimal down", 10.114, 10.11},
		{"third decimal up", 10.115, 10.12},
		{"zero", 0, 0},
		{"whole number", 100, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Round2(tc.in); got != tc.want {
				t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestPrice(t *testing.T) {
	item := func(price float64, qty int) domain.CartItem {
		return domain.CartItem{Price: price, Quantity: qty}
	}

	cases := []struct {
		name  string
		items []domain.CartItem
		want  Quote
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  Quote{ItemsPrice: 0, ShippingPrice: 15, TaxPrice: 0, TotalPrice: 15},
		},
		{
			name:  "single cheap item pays flat shipping",
			items: []domain.CartItem{item(10, 1)},
			want:  Quote{ItemsPrice: 10, ShippingPrice: 15, TaxPrice: 1.5, TotalPrice: 26.5},
		},
		{
			name:  "subtotal of 100",
			items: []domain.CartItem{item(10, 10)},
			want:  Quote{ItemsPrice: 100, ShippingPrice: 15, TaxPrice: 15, TotalPrice: 130},
		},
		{
			name:  "subtotal above threshold ships free",
			items: []domain.CartItem{item(50, 5)},
			want:  Quote{ItemsPrice: 250, ShippingPrice: 0, TaxPrice: 37.5, TotalPrice: 287.5},
		},
		{
			name:  "subtotal exactly at threshold still pays shipping",
			items: []domain.CartItem{item(200, 1)},
			want:  Quote{ItemsPrice: 200, ShippingPrice: 15, TaxPrice: 30, TotalPrice: 245},
		},
		{
			name:  "just over threshold ships free",
			items: []domain.CartItem{item(200.01, 1)},
			want:  Quote{ItemsPrice: 200.01, ShippingPrice: 0, TaxPrice: 30, TotalPrice: 230.01},
		},
		{
			name:  "line totals summed before rounding",
			items: []domain.CartItem{item(0.335, 1), item(0.335, 1)},
			want:  Quote{ItemsPrice: 0.67, ShippingPrice: 15, TaxPrice: 0.1, TotalPrice: 15.77},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Price(tc.items)
			if got != tc.want {
				t.Errorf("Price(%v) = %+v, want %+v", tc.items, got, tc.want)
			}
		})
	}
}

func genCartItems() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.Float64Range(0.01, 500),
		gen.IntRange(1, 10),
	).Map(func(vals []interface{}) domain.CartItem {
		return domain.CartItem{
			Price:    Round2(vals[0].(float64)),
			Quantity: vals[1].(int),
		}
	}))
}

func TestProperty_PriceIsDeterministic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("identical carts always yield identical quotes", prop.ForAll(
		func(items []domain.CartItem) bool {
			return Price(items) == Price(items)
		},
		genCartItems(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_QuoteAmountsAreConsistent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total equals the rounded sum of its parts", prop.ForAll(
		func(items []domain.CartItem) bool {
			q := Price(items)
			return q.TotalPrice == Round2(q.ItemsPrice+q.ShippingPrice+q.TaxPrice)
		},
		genCartItems(),
	))

	properties.Property("tax is the rounded rate applied to the subtotal", prop.ForAll(
		func(items []domain.CartItem) bool {
			q := Price(items)
			return q.TaxPrice == Round2(q.ItemsPrice*TaxRate)
		},
		genCartItems(),
	))

	properties.Property("shipping is free only above the threshold", prop.ForAll(
		func(items []domain.CartItem) bool {
			q := Price(items)
			if q.ItemsPrice > FreeShippingThreshold {
				return q.ShippingPrice == 0
			}
			return q.ShippingPrice == FlatShippingPrice
		},
		genCartItems(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_AmountsAreAlreadyRounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every quote amount is a fixed point of Round2", prop.ForAll(
		func(items []domain.CartItem) bool {
			q := Price(items)
			return q.ItemsPrice == Round2(q.ItemsPrice) &&
				q.ShippingPrice == Round2(q.ShippingPrice) &&
				q.TaxPrice == Round2(q.TaxPrice) &&
				q.TotalPrice == Round2(q.TotalPrice)
		},
		genCartItems(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

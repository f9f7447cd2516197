package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMode is the payment method chosen at checkout.
type PaymentMode string

const (
	PaymentModePayPal         PaymentMode = "PayPal"
	PaymentModeStripe         PaymentMode = "Stripe"
	PaymentModeCashOnDelivery PaymentMode = "CashOnDelivery"
)

// Valid reports whether m is one of the enumerated payment modes.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModePayPal, PaymentModeStripe, PaymentModeCashOnDelivery:
		return true
	}
	return false
}

// Location is an optional resolved map location attached to a shipping
// address. The platform only stores it; geocoding happens elsewhere.
type Location struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formattedAddress"`
	Name             string  `json:"name"`
	Vicinity         string  `json:"vicinity"`
	PlaceID          string  `json:"placeId"`
}

// ShippingAddress is the destination snapshot frozen onto an order.
type ShippingAddress struct {
	FullName   string    `json:"fullName"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	Location   *Location `json:"location,omitempty"`
}

// OrderItem is an immutable line snapshot. Price is frozen at order
// creation and does not follow later catalog price changes.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"orderId" db:"order_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Image     string    `json:"image" db:"image"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// PaymentResult is the externally issued capture confirmation recorded
// when an order is marked paid.
type PaymentResult struct {
	ExternalID string `json:"externalId"`
	Status     string `json:"status"`
	PayerEmail string `json:"payerEmail"`
}

// Order is the committed, immutable record of a purchase. Amounts are
// computed once at creation; isPaid and isDelivered only ever move from
// false to true.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"userId" db:"user_id"`
	UserName        string          `json:"userName,omitempty" db:"user_name"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMode     PaymentMode     `json:"paymentMode" db:"payment_mode"`
	ItemsPrice      float64         `json:"itemsPrice" db:"items_price"`
	ShippingPrice   float64         `json:"shippingPrice" db:"shipping_price"`
	TaxPrice        float64         `json:"taxPrice" db:"tax_price"`
	TotalPrice      float64         `json:"totalPrice" db:"total_price"`
	IsPaid          bool            `json:"isPaid" db:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" db:"paid_at"`
	IsDelivered     bool            `json:"isDelivered" db:"is_delivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" db:"delivered_at"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// DailySales is one bucket of the admin sales chart.
type DailySales struct {
	Date   string  `json:"date"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

// SalesSummary aggregates storefront activity for the admin dashboard.
type SalesSummary struct {
	OrdersCount   int          `json:"ordersCount"`
	ProductsCount int          `json:"productsCount"`
	UsersCount    int          `json:"usersCount"`
	OrdersPrice   float64      `json:"ordersPrice"`
	SalesData     []DailySales `json:"salesData"`
}

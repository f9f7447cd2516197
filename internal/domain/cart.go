package domain

import "github.com/google/uuid"

// CartItem is one line of a client-held cart. Price and CountInStock are
// snapshots of the catalog at reconciliation time; they track the live
// catalog until the cart is committed into an order.
type CartItem struct {
	ProductID    uuid.UUID `json:"productId"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Image        string    `json:"image"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	Quantity     int       `json:"quantity"`
}

// Cart is the client-held item list, keyed by product: a product appears
// at most once.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Find returns the index of the item for productID, or -1.
func (c *Cart) Find(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog. Rating and NumReviews are
// derived from the product's review set and only change through review
// submission.
type Product struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Category     string    `json:"category" db:"category"`
	Brand        string    `json:"brand" db:"brand"`
	Image        string    `json:"image" db:"image"`
	Price        float64   `json:"price" db:"price"`
	CountInStock int       `json:"countInStock" db:"count_in_stock"`
	Rating       float64   `json:"rating" db:"rating"`
	NumReviews   int       `json:"numReviews" db:"num_reviews"`
	Description  string    `json:"description" db:"description"`
	IsFeatured   bool      `json:"isFeatured" db:"is_featured"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Review is a single user's review of a product. A user has at most one
// review per product; resubmitting replaces rating and comment in place.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	UserName  string    `json:"name" db:"user_name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

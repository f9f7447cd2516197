package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seed loads a small demo dataset for local development. It is a no-op
// when the catalog already has products, so it is safe to run at every
// startup behind the -seed flag.
func Seed(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if count > 0 {
		log.Info("Catalog already populated, skipping seed", zap.Int("products", count))
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	for _, u := range seedUsers() {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, name, email, password_hash, is_admin, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (email) DO NOTHING`,
			uuid.New(), u.name, u.email, string(hash), u.isAdmin, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
	}

	for _, p := range seedProducts() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, slug, category, brand, image, price, count_in_stock,
				rating, num_reviews, description, is_featured, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, $10, $11, $12)`,
			uuid.New(), p.Name, p.Slug, p.Category, p.Brand, p.Image,
			p.Price, p.CountInStock, p.Description, p.IsFeatured, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	log.Info("Seed data loaded",
		zap.Int("users", len(seedUsers())),
		zap.Int("products", len(seedProducts())),
	)
	return nil
}

type seedUser struct {
	name     string
	email    string
	password string
	isAdmin  bool
}

func seedUsers() []seedUser {
	return []seedUser{
		{name: "Admin", email: "admin@example.com", password: "admin12345", isAdmin: true},
		{name: "John Doe", email: "john@example.com", password: "password123"},
	}
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{
			Name:         "Free Shirt",
			Slug:         "free-shirt",
			Category:     "Shirts",
			Brand:        "Nike",
			Image:        "/images/shirt1.jpg",
			Price:        70,
			CountInStock: 20,
			Description:  "A popular shirt",
			IsFeatured:   true,
		},
		{
			Name:         "Fit Shirt",
			Slug:         "fit-shirt",
			Category:     "Shirts",
			Brand:        "Adidas",
			Image:        "/images/shirt2.jpg",
			Price:        80,
			CountInStock: 20,
			Description:  "A popular shirt",
			IsFeatured:   true,
		},
		{
			Name:         "Slim Shirt",
			Slug:         "slim-shirt",
			Category:     "Shirts",
			Brand:        "Raymond",
			Image:        "/images/shirt3.jpg",
			Price:        90,
			CountInStock: 20,
			Description:  "A popular shirt",
		},
		{
			Name:         "Golf Pants",
			Slug:         "golf-pants",
			Category:     "Pants",
			Brand:        "Oliver",
			Image:        "/images/pants1.jpg",
			Price:        90,
			CountInStock: 20,
			Description:  "Smart looking pants",
		},
		{
			Name:         "Fit Pants",
			Slug:         "fit-pants",
			Category:     "Pants",
			Brand:        "Zara",
			Image:        "/images/pants2.jpg",
			Price:        95,
			CountInStock: 20,
			Description:  "A popular pants",
		},
		{
			Name:         "Classic Pants",
			Slug:         "classic-pants",
			Category:     "Pants",
			Brand:        "Casely",
			Image:        "/images/pants3.jpg",
			Price:        75,
			CountInStock: 20,
			Description:  "A popular pants",
		},
	}
}

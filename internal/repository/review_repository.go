package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Submit upserts the (product,user) review and recomputes the product's
	// aggregate rating in the same transaction. It reports whether a new
	// review was created (false means an existing one was updated).
	Submit(ctx context.Context, review *domain.Review) (bool, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, float64, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Submit runs the upsert and the rating recompute under a product row lock,
// so two concurrent submissions for the same product serialize and neither
// contribution to the mean is lost.
func (r *reviewRepository) Submit(ctx context.Context, review *domain.Review) (created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin review transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Lock the product row for the duration of the recompute.
	var productID uuid.UUID
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM products WHERE id = $1 FOR UPDATE`,
		review.ProductID,
	).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, ErrProductNotFound
		}
		return false, fmt.Errorf("failed to lock product: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE reviews
		SET rating = $3, comment = $4, user_name = $5, updated_at = $6
		WHERE product_id = $1 AND user_id = $2
	`, review.ProductID, review.UserID, review.Rating, review.Comment, review.UserName, review.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to update review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, review.ID, review.ProductID, review.UserID, review.UserName, review.Rating,
			review.Comment, review.CreatedAt, review.UpdatedAt)
		if err != nil {
			return false, fmt.Errorf("failed to insert review: %w", err)
		}
		created = true
	}

	// Recompute against the post-mutation review set.
	var count int
	var mean float64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE product_id = $1
	`, review.ProductID).Scan(&count, &mean)
	if err != nil {
		return false, fmt.Errorf("failed to recompute rating: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET rating = $2, num_reviews = $3, updated_at = $4
		WHERE id = $1
	`, review.ProductID, mean, count, review.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to store recomputed rating: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit review transaction: %w", err)
	}

	return created, nil
}

// ListByProduct returns the product's reviews newest-updated-first together
// with the current aggregate rating.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, float64, error) {
	var rating float64
	err := r.db.QueryRowContext(ctx,
		`SELECT rating FROM products WHERE id = $1`,
		productID,
	).Scan(&rating)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, ErrProductNotFound
		}
		return nil, 0, fmt.Errorf("failed to find product: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at, updated_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY updated_at DESC
	`, productID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review := &domain.Review{}
		err := rows.Scan(
			&review.ID,
			&review.ProductID,
			&review.UserID,
			&review.UserName,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, rating, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ReviewService maintains per-product review lists and the derived rating.
type ReviewService interface {
	// Submit creates the user's review for a product, or updates the
	// existing one in place. Returns true when a new review was created.
	Submit(ctx context.Context, productID, userID uuid.UUID, userName string, rating int, comment string) (bool, error)
	List(ctx context.Context, productID uuid.UUID) ([]*domain.Review, float64, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo}
}

func (s *reviewService) Submit(ctx context.Context, productID, userID uuid.UUID, userName string, rating int, comment string) (bool, error) {
	if rating < 1 || rating > 5 {
		return false, ErrInvalidRating
	}

	now := time.Now()
	review := &domain.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.reviewRepo.Submit(ctx, review)
}

func (s *reviewService) List(ctx context.Context, productID uuid.UUID) ([]*domain.Review, float64, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}

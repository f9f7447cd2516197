package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestReviewService_SubmitRejectsInvalidRating(t *testing.T) {
	ctx := context.Background()
	svc := NewReviewService(newMockReviewRepository())

	for _, rating := range []int{0, -1, 6, 100} {
		if _, err := svc.Submit(ctx, uuid.New(), uuid.New(), "John", rating, "nope"); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestReviewService_SubmitCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	reviewRepo := newMockReviewRepository()
	svc := NewReviewService(reviewRepo)

	productID := uuid.New()
	userID := uuid.New()

	created, err := svc.Submit(ctx, productID, userID, "John", 4, "good")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !created {
		t.Fatalf("first submission must create a review")
	}

	created, err = svc.Submit(ctx, productID, userID, "John", 2, "changed my mind")
	if err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}
	if created {
		t.Fatalf("second submission must update in place")
	}

	reviews, rating, err := svc.List(ctx, productID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review after resubmit, got %d", len(reviews))
	}
	if reviews[0].Rating != 2 || reviews[0].Comment != "changed my mind" {
		t.Errorf("review was not updated: %+v", reviews[0])
	}
	if rating != 2 {
		t.Errorf("expected rating 2, got %v", rating)
	}
}

func TestReviewService_RatingIsMeanOfReviews(t *testing.T) {
	ctx := context.Background()
	svc := NewReviewService(newMockReviewRepository())

	productID := uuid.New()
	for _, r := range []int{5, 3, 4} {
		if _, err := svc.Submit(ctx, productID, uuid.New(), "User", r, "c"); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	_, rating, err := svc.List(ctx, productID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if rating != 4 {
		t.Errorf("expected mean rating 4, got %v", rating)
	}
}

func TestProperty_OneReviewPerUserPerProduct(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated submissions keep a single review per user", prop.ForAll(
		func(ratings []int) bool {
			ctx := context.Background()
			svc := NewReviewService(newMockReviewRepository())

			productID := uuid.New()
			userID := uuid.New()

			for _, r := range ratings {
				if _, err := svc.Submit(ctx, productID, userID, "John", r, "c"); err != nil {
					return false
				}
			}

			reviews, rating, err := svc.List(ctx, productID)
			if err != nil {
				return false
			}
			if len(ratings) == 0 {
				return len(reviews) == 0
			}

			last := ratings[len(ratings)-1]
			return len(reviews) == 1 &&
				reviews[0].Rating == last &&
				rating == float64(last)
		},
		gen.SliceOf(gen.IntRange(1, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB)

	user := insertTestUser(t, "John Doe")

	byEmail, err := repo.FindByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.Name != "John Doe" {
		t.Errorf("wrong user for email %s: %+v", user.Email, byEmail)
	}

	byID, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.Email != user.Email {
		t.Errorf("wrong user for id %s", user.ID)
	}

	if _, err := repo.FindByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB)

	user := insertTestUser(t, "John")

	now := time.Now()
	dup := &domain.User{
		ID:           uuid.New(),
		Name:         "Impostor",
		Email:        user.Email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB)

	user := insertTestUser(t, "John")
	taken := insertTestUser(t, "Jane")

	user.Name = "Johnny"
	user.IsAdmin = true
	user.UpdatedAt = time.Now()
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "Johnny" || !found.IsAdmin {
		t.Errorf("update not persisted: %+v", found)
	}

	user.Email = taken.Email
	if err := repo.Update(ctx, user); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("update onto taken email must fail with ErrUserAlreadyExists, got %v", err)
	}

	ghost := *user
	ghost.ID = uuid.New()
	ghost.Email = "ghost@example.com"
	if err := repo.Update(ctx, &ghost); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("update of missing user must fail with ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB)

	user := insertTestUser(t, "John")

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("deleted user must be gone, got %v", err)
	}
	if err := repo.Delete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second delete must fail with ErrUserNotFound, got %v", err)
	}
}

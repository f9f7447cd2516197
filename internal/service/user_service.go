package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
)

// UserService defines the interface for account and session business logic
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, string, string, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *domain.User, err error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, email, password string) (*domain.User, string, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, name string, isAdmin bool) (*domain.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// Claims is the principal encoded into an access token.
type Claims struct {
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewUserService creates a new instance of UserService. Expiries are given
// in days.
func NewUserService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtSecret string,
	accessExpiryDays, refreshExpiryDays int,
) UserService {
	return &userService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  time.Duration(accessExpiryDays) * 24 * time.Hour,
		refreshExpiry: time.Duration(refreshExpiryDays) * 24 * time.Hour,
	}
}

// Register creates a new account with a hashed password and logs it in,
// returning the account plus its initial token pair. A duplicate email
// fails with repository.ErrUserAlreadyExists.
func (s *userService) Register(ctx context.Context, name, email, password string) (*domain.User, string, string, error) {
	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index on email is the authority on duplicates; checking
	// first would still race with a concurrent registration.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, "", "", repository.ErrUserAlreadyExists
		}
		return nil, "", "", fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return user, accessToken, refreshToken, nil
}

// Login authenticates an account and returns a token pair
func (s *userService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *domain.User, err error) {
	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", nil, ErrInvalidCredentials
		}
		return "", "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err = s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = s.generateRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// Logout revokes the refresh-token session
func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.sessionRepo.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			// Already logged out
			return nil
		}
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RefreshToken exchanges a live session for a new access token
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	session, err := s.sessionRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionRevoked) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to find session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return "", ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	newAccessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return newAccessToken, nil
}

// ValidateToken validates a JWT access token and returns its claims
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetUserByID retrieves an account by ID
func (s *userService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a self-edit. Password is optional; an empty string
// keeps the current hash. Returns the user and a fresh access token so the
// client's principal stays in sync with the new name/email.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	user.Name = name
	user.Email = email
	if password != "" {
		hashed, err := s.hashPassword(password)
		if err != nil {
			return nil, "", fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashed
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return user, token, nil
}

// ListUsers retrieves all accounts (admin)
func (s *userService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateUser applies an admin edit to name and admin flag
func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, name string, isAdmin bool) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.IsAdmin = isAdmin
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an account (admin)
func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.Delete(ctx, userID)
}

func (s *userService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// generateAccessToken signs a JWT carrying the principal claims
func (s *userService) generateAccessToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.accessExpiry)
	claims := &Claims{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// generateRefreshToken persists a new session and returns its token
func (s *userService) generateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	tokenString := uuid.New().String()

	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(s.refreshExpiry),
		CreatedAt: time.Now(),
		Revoked:   false,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}

	return tokenString, nil
}

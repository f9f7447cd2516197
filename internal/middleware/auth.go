package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the verified identity attached to an authenticated request.
type Principal struct {
	ID      uuid.UUID
	Name    string
	Email   string
	IsAdmin bool
}

// AuthMiddleware validates bearer tokens and attaches the principal to the
// request context. It runs before any handler touches persistent state.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			tokenString := parts[1]

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})

			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			if !token.Valid {
				logger.Debug("Invalid token")
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				logger.Error("Failed to extract claims from token")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			principal, err := principalFromClaims(claims)
			if err != nil {
				logger.Error("Malformed token claims", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)

			logger.Debug("User authenticated",
				zap.String("user_id", principal.ID.String()),
				zap.Bool("is_admin", principal.IsAdmin),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func principalFromClaims(claims jwt.MapClaims) (Principal, error) {
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return Principal{}, errors.New("missing user_id claim")
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return Principal{}, errors.New("user_id claim is not a UUID")
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return Principal{
		ID:      id,
		Name:    name,
		Email:   email,
		IsAdmin: isAdmin,
	}, nil
}

// GetPrincipal extracts the authenticated principal from the request context
func GetPrincipal(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func requestWithPrincipal(p Principal) *http.Request {
	req := httptest.NewRequest("GET", "/admin", nil)
	ctx := context.WithValue(req.Context(), principalKey, p)
	return req.WithContext(ctx)
}

func TestRequireAdmin(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	handler := RequireAdmin(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("admin principal passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithPrincipal(Principal{ID: uuid.New(), IsAdmin: true}))
		if w.Code != http.StatusOK {
			t.Errorf("expected 200 for admin, got %d", w.Code)
		}
	})

	t.Run("regular principal is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithPrincipal(Principal{ID: uuid.New()}))
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 for non-admin, got %d", w.Code)
		}
	})

	t.Run("missing principal is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 without principal, got %d", w.Code)
		}
	})
}

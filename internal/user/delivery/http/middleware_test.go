package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/auth"
)

func bearerRequest(t *testing.T, role string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(uuid.New(), "tester", role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	handler := RequireRole(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, domain.RoleCashier)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	handler := RequireRole(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, domain.RoleCashier)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, bearerRequest(t, domain.RoleEmployee))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireRoleAcceptsRoleAndAdmin(t *testing.T) {
	for _, role := range []string{domain.RoleCashier, domain.RoleAdmin} {
		handler := RequireRole(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}, domain.RoleCashier)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, bearerRequest(t, role))

		if rec.Code != http.StatusOK {
			t.Errorf("role %s: status = %d, want %d", role, rec.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddlewareExposesUserID(t *testing.T) {
	userID := uuid.New()
	token, err := auth.GenerateToken(userID, "tester", domain.RoleEmployee)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var got uuid.UUID
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		got = UserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got != userID {
		t.Errorf("UserID = %s, want %s", got, userID)
	}
}

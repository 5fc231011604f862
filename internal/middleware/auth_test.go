package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abenezer/localserve/internal/auth"
)

const testSecret = "test-secret"

func protectedEndpoint(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("claims missing from context")
		} else if claims.UserID != wantUserID {
			t.Errorf("UserID = %q, want %q", claims.UserID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/providers/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/providers/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	token, err := auth.SignToken(testSecret, "user-1", "provider", 60)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	handler := Authenticate(testSecret)(protectedEndpoint(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/providers/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{"admin allowed on admin route", "admin", []string{"admin", "super_admin"}, http.StatusOK},
		{"super admin allowed on admin route", "super_admin", []string{"admin", "super_admin"}, http.StatusOK},
		{"customer rejected on admin route", "customer", []string{"admin", "super_admin"}, http.StatusForbidden},
		{"admin rejected on super admin route", "admin", []string{"super_admin"}, http.StatusForbidden},
		{"role check ignores case", "Admin", []string{"admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := auth.SignToken(testSecret, "user-1", tt.role, 60)
			if err != nil {
				t.Fatalf("SignToken() error = %v", err)
			}

			ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := Authenticate(testSecret)(RequireRoles(tt.allowed...)(ok))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/providers", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRolesWithoutAuthentication(t *testing.T) {
	handler := RequireRoles("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without authentication")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/providers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

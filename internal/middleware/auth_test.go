package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docsign-app/docsigngo/internal/config"
	"github.com/docsign-app/docsigngo/internal/models"
	"github.com/docsign-app/docsigngo/internal/utils"
)

const testSecret = "test-secret-key"

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	mw := Auth(testSecret)
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserID(r)))
	}))
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	protectedHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	protectedHandler(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	protectedHandler(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	user := &models.UserAuth{ID: "user-1", Email: "a@example.com", Role: "user"}
	token, _, err := utils.GenerateTokens(user, &config.Config{JWTSecret: "other-secret"})
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedHandler(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Token signed with the wrong secret should fail, got %d", rec.Code)
	}
}

func TestAuthPassesValidToken(t *testing.T) {
	user := &models.UserAuth{ID: "user-1", Email: "a@example.com", Role: "user"}
	token, _, err := utils.GenerateTokens(user, &config.Config{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("UserID should surface the token subject, got %q", rec.Body.String())
	}
}

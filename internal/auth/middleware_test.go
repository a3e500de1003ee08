package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, c claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func protected(t *testing.T) (http.Handler, *User) {
	t.Helper()
	captured := &User{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := UserFromContext(r.Context()); u != nil {
			*captured = *u
		}
		w.WriteHeader(http.StatusOK)
	})
	return Middleware(testSecret)(next), captured
}

func TestMiddlewareValidToken(t *testing.T) {
	handler, captured := protected(t)

	token := signToken(t, testSecret, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "clinician-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "doc@example.com",
		Roles: []string{"clinician"},
	})

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.ID != "clinician-1" || captured.Email != "doc@example.com" {
		t.Errorf("user = %+v", captured)
	}
}

func TestMiddlewareRejections(t *testing.T) {
	handler, _ := protected(t)

	expired := signToken(t, testSecret, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "clinician-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	wrongKey := signToken(t, "other-secret", claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "clinician-1"},
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/patients", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

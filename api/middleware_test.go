package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gigbridge/gigbridge/backend/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestAuthenticate_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, jwt.MapClaims{
		"id":   userID.String(),
		"role": "freelancer",
	})

	var got models.Actor
	var gotErr error
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = ctxGetActor(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthMiddleware(testSecret).authenticate(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotErr != nil {
		t.Fatalf("actor missing from request context: %v", gotErr)
	}
	if got.ID != userID || got.Role != models.RoleFreelancer {
		t.Fatalf("unexpected actor %+v", got)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	userID := uuid.New().String()
	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", jwt.MapClaims{"id": userID, "role": "client"})},
		{"bad user id", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"id": "42", "role": "client"})},
		{"unknown role", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"id": userID, "role": "superuser"})},
		{"missing claims", "Bearer " + signToken(t, testSecret, jwt.MapClaims{})},
	}

	mw := newAuthMiddleware(testSecret)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler reached with invalid credentials")
	})

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rec := httptest.NewRecorder()
		mw.authenticate(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", c.name, rec.Code)
		}
	}
}

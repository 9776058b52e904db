package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/middleware"
	"github.com/brokeragehq/backoffice/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockActorLookup struct {
	validKeys map[string]*models.User
}

func (m *mockActorLookup) GetUserByAPIKey(_ context.Context, apiKey string) (*models.User, error) {
	if u, ok := m.validKeys[apiKey]; ok {
		return u, nil
	}

	return nil, errors.New("invalid key")
}

func TestAuthMiddleware(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	lookup := &mockActorLookup{validKeys: map[string]*models.User{
		"good-key": {ID: "u-1", Name: "Ops", Role: "ops"},
	}}

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{"valid token", "Bearer good-key", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-key", http.StatusUnauthorized},
		{"no bearer prefix", "good-key", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.AuthMiddleware(lookup, log))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("got %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestAuthMiddleware_SetsActor(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	lookup := &mockActorLookup{validKeys: map[string]*models.User{
		"k1": {ID: "u-7", Role: "admin"},
	}}

	var gotID, gotRole string
	r := gin.New()
	r.Use(middleware.AuthMiddleware(lookup, log))
	r.GET("/test", func(c *gin.Context) {
		gotID = c.GetString(middleware.ActorIDKey)
		gotRole = c.GetString(middleware.ActorRoleKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer k1")
	r.ServeHTTP(w, req)

	if gotID != "u-7" || gotRole != "admin" {
		t.Fatalf("actor = (%q, %q), want (u-7, admin)", gotID, gotRole)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"abc123", ""},
		{"", ""},
		{"Bearer ", ""},
		{"bearer abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			got := middleware.ExtractBearerToken(c)
			if got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestCachedActorLookup_NegativeCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inner := &countingLookup{}
	cached := middleware.NewCachedActorLookup(ctx, inner)

	for range 3 {
		if _, err := cached.GetUserByAPIKey(ctx, "missing"); err == nil {
			t.Fatal("expected lookup failure")
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner lookup called %d times, want 1 (negative cache)", inner.calls)
	}
}

type countingLookup struct {
	calls int
}

func (c *countingLookup) GetUserByAPIKey(_ context.Context, _ string) (*models.User, error) {
	c.calls++

	return nil, errors.New("no such user")
}

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/middleware"
	"github.com/brokeragehq/backoffice/internal/models"
)

func newTestGuard(t *testing.T) *middleware.BruteForceGuard {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return middleware.NewBruteForceGuard(ctx, log)
}

func TestBruteForce_SuccessfulAuthResetsCount(t *testing.T) {
	guard := newTestGuard(t)

	guard.RecordFailure("key1")
	guard.RecordFailure("key1")
	guard.ResetKey("key1")

	if guard.IsBlocked("key1") {
		t.Fatal("key should not be blocked after reset")
	}
}

func TestBruteForce_BlocksAfterMaxFailures(t *testing.T) {
	guard := newTestGuard(t)

	for range 4 {
		guard.RecordFailure("badkey")
	}
	if guard.IsBlocked("badkey") {
		t.Fatal("key should not be blocked before max failures")
	}

	guard.RecordFailure("badkey")
	if !guard.IsBlocked("badkey") {
		t.Fatal("key should be blocked after max failures")
	}
}

func TestBruteForce_MiddlewareBlocks(t *testing.T) {
	guard := newTestGuard(t)

	for range 5 {
		guard.RecordFailure("blockedtoken")
	}

	r := gin.New()
	r.Use(middleware.BruteForceMiddleware(guard))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer blockedtoken")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestBruteForce_MiddlewarePassesNoToken(t *testing.T) {
	guard := newTestGuard(t)

	r := gin.New()
	r.Use(middleware.BruteForceMiddleware(guard))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("no token should pass through, got %d", w.Code)
	}
}

func TestBruteForce_AuthFailuresFeedGuard(t *testing.T) {
	guard := newTestGuard(t)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	lookup := &mockActorLookup{validKeys: map[string]*models.User{
		"good-key": {ID: "u-1", Role: "ops"},
	}}

	r := gin.New()
	r.Use(middleware.BruteForceMiddleware(guard))
	r.Use(middleware.AuthMiddleware(lookup, log, guard))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(key string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+key)
		r.ServeHTTP(w, req)

		return w.Code
	}

	for range 5 {
		if code := hit("wrong-key"); code != http.StatusUnauthorized {
			t.Fatalf("failed auth = %d, want 401", code)
		}
	}

	if code := hit("wrong-key"); code != http.StatusTooManyRequests {
		t.Fatalf("locked-out key = %d, want 429", code)
	}

	// Other keys are unaffected by the lockout.
	if code := hit("good-key"); code != http.StatusOK {
		t.Fatalf("valid key during lockout = %d, want 200", code)
	}
}

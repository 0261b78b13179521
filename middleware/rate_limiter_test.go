package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einadid/microtask-server/models"
	"github.com/einadid/microtask-server/utils"
)

func TestClientIPGeneric_DirectRemote(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "203.0.113.5:54321"
	assert.Equal(t, "203.0.113.5", clientIPGeneric(req, nil))
}

func TestClientIPGeneric_TrustedProxyXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.10:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.10")
	assert.Equal(t, "203.0.113.7", clientIPGeneric(req, []string{"198.51.100.10"}))
	assert.Equal(t, "203.0.113.7", clientIPGeneric(req, []string{"198.51.100.0/24"}))
}

func TestClientIPGeneric_UntrustedProxyIgnoresXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.11:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.8, 198.51.100.11")
	assert.Equal(t, "198.51.100.11", clientIPGeneric(req, []string{"198.51.100.10"}))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestIPRateLimiter_BlocksAfterLimit(t *testing.T) {
	l := NewIPRateLimiter(2, time.Minute)
	defer l.Stop()
	h := l.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/auth/jwt", nil)
		req.RemoteAddr = "192.0.2.1:1000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest("POST", "/api/auth/jwt", nil)
	req.RemoteAddr = "192.0.2.2:1000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserRateLimiter_SeparatesWritesAndPenalizes(t *testing.T) {
	l := NewUserRateLimiter(5, 1, 60)
	defer l.Stop()
	h := l.Middleware(okHandler())
	user := models.User{ID: 9, Role: models.RoleWorker}

	do := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/submissions", nil)
		req = req.WithContext(context.WithValue(req.Context(), utils.UserKey, user))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, do("POST").Code)
	w := do("POST")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusTooManyRequests, do("PATCH").Code)
	assert.Equal(t, http.StatusOK, do("GET").Code)

	user.Role = models.RoleAdmin
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("POST").Code)
	}
}

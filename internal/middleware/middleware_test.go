package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(SecurityHeaders())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Header().Get("X-Content-Type-Options"), "nosniff")
	assert.Equal(t, w.Header().Get("X-Frame-Options"), "DENY")
	assert.Equal(t, w.Header().Get("Referrer-Policy"), "strict-origin-when-cross-origin")
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(CORS("http://localhost:3000"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusNoContent)
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "http://localhost:3000")
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Credentials"), "true")
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := newRouter(RequestID())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a generated request id")
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Header().Get("X-Request-Id"), "abc-123")
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	r := newRouter(RateLimit(1, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, codes[0], http.StatusOK)
	assert.Equal(t, codes[1], http.StatusOK)
	assert.Equal(t, codes[2], http.StatusTooManyRequests)
}

func TestRateLimitIsPerClient(t *testing.T) {
	r := newRouter(RateLimit(1, 1))

	for i, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("client %d limited by another client's bucket", i)
		}
	}
}

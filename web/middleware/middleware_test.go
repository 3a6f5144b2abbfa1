package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(mw...)
	engine.Any("/*path", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	config := DefaultRateLimitConfig(2)
	engine := newEngine(RateLimitMiddleware(config))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, serve(engine, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// other clients and paths have their own window
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := serve(engine, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	req = httptest.NewRequest(http.MethodPost, "/other", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, http.StatusOK, serve(engine, req).Code)
}

func TestRateLimitCustomHandler(t *testing.T) {
	config := DefaultRateLimitConfig(1)
	config.LimitHandler = func(c *gin.Context) {
		c.String(http.StatusTooManyRequests, "slow down")
	}
	engine := newEngine(RateLimitMiddleware(config))

	serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil))
	w := serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "slow down", w.Body.String())
}

func TestRateLimitDisabled(t *testing.T) {
	engine := newEngine(RateLimitMiddleware(DefaultRateLimitConfig(0)))
	for range 20 {
		assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
}

func TestDomainValidatorMiddleware(t *testing.T) {
	engine := newEngine(DomainValidatorMiddleware("panel.example.com"))

	cases := []struct {
		host string
		want int
	}{
		{"panel.example.com", http.StatusOK},
		{"panel.example.com:8501", http.StatusOK},
		{"PANEL.example.com", http.StatusOK},
		{"evil.example.com", http.StatusForbidden},
		{"127.0.0.1:8501", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = tc.host
		assert.Equal(t, tc.want, serve(engine, req).Code, tc.host)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	engine := newEngine(RequestIDMiddleware())

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	assert.Equal(t, id, serve(engine, req).Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", serve(engine, req).Header().Get(RequestIDHeader))
}

package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type fakeLimiter struct {
	hits map[string]int
	err  error
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit int) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	current := f.hits[key]
	if current >= limit {
		return current, false, nil
	}
	f.hits[key]++
	return current, true, nil
}

func (f *fakeLimiter) Window() time.Duration { return time.Minute }

func TestRateLimit(t *testing.T) {
	limiter := &fakeLimiter{hits: map[string]int{}}
	cfg := config.SecurityConfig{RateLimitEnabled: true, RateLimitPerMinute: 2}

	engine := gin.New()
	engine.GET("/", RateLimit(cfg, limiter, quietLogger()), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimit_DisabledOrUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SecurityConfig
		limiter RateLimiter
	}{
		{"disabled", config.SecurityConfig{RateLimitPerMinute: 0}, &fakeLimiter{hits: map[string]int{}}},
		{"no limiter", config.SecurityConfig{RateLimitEnabled: true, RateLimitPerMinute: 0}, nil},
		{"limiter error", config.SecurityConfig{RateLimitEnabled: true, RateLimitPerMinute: 0}, &fakeLimiter{err: errors.New("redis down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/", RateLimit(tt.cfg, tt.limiter, quietLogger()), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	for _, showDetails := range []bool{true, false} {
		engine := gin.New()
		engine.Use(Recovery(quietLogger(), showDetails))
		engine.GET("/", func(c *gin.Context) { panic("kaboom") })

		w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"Something went wrong!"`)
		if showDetails {
			assert.Contains(t, w.Body.String(), "kaboom")
		} else {
			assert.NotContains(t, w.Body.String(), "kaboom")
		}
	}
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = serve(engine, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRequestSizeLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestSizeLimit(8))
	engine.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(engine, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large a body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(time.Second))
	engine.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		if !ok || time.Until(deadline) > time.Second {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIsOriginAllowed(t *testing.T) {
	assert.True(t, isOriginAllowed("http://anything", []string{"*"}))
	assert.True(t, isOriginAllowed("https://shop.example.com", []string{"https://shop.example.com"}))
	assert.True(t, isOriginAllowed("https://a.example.com", []string{"*.example.com"}))
	assert.False(t, isOriginAllowed("https://badexample.com", []string{"*.example.com"}))
	assert.False(t, isOriginAllowed("https://evil.com", []string{"https://shop.example.com"}))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS(config.SecurityConfig{CORSAllowedOrigins: []string{"https://shop.example.com"}}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.com")
	w := serve(engine, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

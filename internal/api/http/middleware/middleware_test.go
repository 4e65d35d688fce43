package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/motion-studio/briefing-backend/internal/logging"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		seen = logging.RequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestAPIKeyMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/open", APIKeyMiddleware(""), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/closed", APIKeyMiddleware("s3cret"), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		path, key string
		want      int
	}{
		{"/open", "", http.StatusOK},
		{"/closed", "", http.StatusUnauthorized},
		{"/closed", "wrong", http.StatusUnauthorized},
		{"/closed", "s3cret", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.key != "" {
			req.Header.Set(APIKeyHeader, tc.key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "%s key=%q", tc.path, tc.key)
	}
}

func TestClientRateLimiter(t *testing.T) {
	l := NewClientRateLimiter(rate.Every(time.Hour), 2)
	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// buckets are per key
	assert.True(t, l.Allow("10.0.0.9"))
}

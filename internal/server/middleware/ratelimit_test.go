package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/objsync/internal/clock"
)

var testEpoch = time.UnixMilli(1_700_000_000_000)

func newTestLimiter(t *testing.T, rate int, window time.Duration) (*RateLimiter, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(testEpoch)
	limiter := NewRateLimiter(rate, window, clk)
	t.Cleanup(limiter.Stop)
	return limiter, clk
}

func TestNewRateLimiter(t *testing.T) {
	limiter, _ := newTestLimiter(t, 10, time.Minute)

	assert.NotNil(t, limiter)
	assert.Equal(t, 10, limiter.rate)
	assert.Equal(t, time.Minute, limiter.window)
	assert.NotNil(t, limiter.buckets)
	assert.NotNil(t, limiter.cleanupC)

	// Повторный Stop не паникует
	limiter.Stop()
	limiter.Stop()
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("First requests within limit are allowed", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("192.168.1.1"), fmt.Sprintf("request %d should be allowed", i+1))
		}
	})

	t.Run("Requests over limit are denied", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("192.168.1.2"))
		}
		assert.False(t, limiter.Allow("192.168.1.2"), "request over limit should be denied")
	})

	t.Run("Different keys are tracked separately", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 2, time.Minute)

		assert.True(t, limiter.Allow("192.168.1.1"))
		assert.True(t, limiter.Allow("192.168.1.1"))
		assert.False(t, limiter.Allow("192.168.1.1"), "key1 over limit")

		assert.True(t, limiter.Allow("192.168.1.2"))
		assert.True(t, limiter.Allow("192.168.1.2"))
		assert.False(t, limiter.Allow("192.168.1.2"), "key2 over limit")
	})

	t.Run("Tokens refill after window expires", func(t *testing.T) {
		limiter, clk := newTestLimiter(t, 2, time.Minute)

		assert.True(t, limiter.Allow("192.168.1.3"))
		assert.True(t, limiter.Allow("192.168.1.3"))
		assert.False(t, limiter.Allow("192.168.1.3"), "should be rate limited")

		clk.Advance(59 * time.Second)
		assert.False(t, limiter.Allow("192.168.1.3"), "window has not expired yet")

		clk.Advance(time.Second)
		assert.True(t, limiter.Allow("192.168.1.3"), "tokens should be refilled")
		assert.True(t, limiter.Allow("192.168.1.3"), "tokens should be refilled")
	})
}

func TestRateLimiter_CleanupOldBuckets(t *testing.T) {
	limiter, clk := newTestLimiter(t, 10, time.Minute)

	limiter.Allow("192.168.1.1")
	limiter.Allow("192.168.1.2")

	clk.Advance(90 * time.Second)
	limiter.Allow("192.168.1.3")

	clk.Advance(60 * time.Second)
	limiter.cleanupOldBuckets()

	limiter.mu.RLock()
	defer limiter.mu.RUnlock()
	assert.Len(t, limiter.buckets, 1, "only the recently used bucket survives")
	assert.Contains(t, limiter.buckets, "192.168.1.3")
}

func TestRateLimitByPathMiddleware_DefaultOnly(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	t.Run("Requests over limit are blocked with 429", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 3, time.Minute)
		handler := RateLimitByPathMiddleware(nil, limiter, logger)(ok)

		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPut, "/objects", nil)
			req.RemoteAddr = "192.168.1.2:12345"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "success", w.Body.String())
		}

		req := httptest.NewRequest(http.MethodPut, "/objects", nil)
		req.RemoteAddr = "192.168.1.2:12345"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "rate limit exceeded")
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("Port is not part of the key", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, time.Minute)
		handler := RateLimitByPathMiddleware(nil, limiter, logger)(ok)

		req1 := httptest.NewRequest(http.MethodGet, "/objects", nil)
		req1.RemoteAddr = "192.168.1.1:1111"
		w1 := httptest.NewRecorder()
		handler.ServeHTTP(w1, req1)
		assert.Equal(t, http.StatusOK, w1.Code)

		req2 := httptest.NewRequest(http.MethodGet, "/objects", nil)
		req2.RemoteAddr = "192.168.1.1:2222"
		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, req2)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		expectedIP string
	}{
		{name: "IPv4 with port", remoteAddr: "192.168.3.1:54321", expectedIP: "192.168.3.1"},
		{name: "IPv6 with port", remoteAddr: "[::1]:8000", expectedIP: "::1"},
		{name: "Address without port (set by RealIP)", remoteAddr: "10.0.0.7", expectedIP: "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/objects", nil)
			req.RemoteAddr = tt.remoteAddr

			assert.Equal(t, tt.expectedIP, getClientIP(req))
		})
	}
}

func TestRateLimitByPathMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokenLimiter, _ := newTestLimiter(t, 2, time.Minute)
	defaultLimiter, _ := newTestLimiter(t, 10, time.Minute)

	handler := RateLimitByPathMiddleware(
		[]PathRateLimit{{Path: "/user/token", Limiter: tokenLimiter}},
		defaultLimiter,
		logger,
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodPut, path, nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("Token endpoint has stricter limit", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do("/user/token"))
		assert.Equal(t, http.StatusOK, do("/user/token"))
		assert.Equal(t, http.StatusTooManyRequests, do("/user/token"))
	})

	t.Run("Other paths use default limit", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, do("/objects"))
		}
		assert.Equal(t, http.StatusTooManyRequests, do("/objects"))
	})
}

func TestRateLimitByPathMiddleware_LogsExceededRequests(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	limiter, _ := newTestLimiter(t, 1, time.Minute)
	handler := RateLimitByPathMiddleware(nil, limiter, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPut, "/user/token", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "Rate limit exceeded")
	assert.Contains(t, logOutput, "192.168.1.1")
	assert.Contains(t, logOutput, "/user/token")
	assert.Contains(t, logOutput, "PUT")
}

func TestRateLimiter_RetryAfterSeconds(t *testing.T) {
	tests := []struct {
		window time.Duration
		want   int
	}{
		{window: time.Minute, want: 60},
		{window: 1500 * time.Millisecond, want: 2},
		{window: 10 * time.Millisecond, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.window.String(), func(t *testing.T) {
			limiter, _ := newTestLimiter(t, 1, tt.window)
			assert.Equal(t, tt.want, limiter.retryAfterSeconds())
		})
	}
}

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/server/handlers"
)

// RateLimiter представляет rate limiter на основе токен-бакета (token bucket)
type RateLimiter struct {
	buckets  map[string]*bucket
	clock    clock.Clock
	cleanupC chan struct{}
	stopOnce sync.Once
	rate     int
	window   time.Duration
	mu       sync.RWMutex
}

// bucket представляет bucket для конкретного IP/ключа
type bucket struct {
	lastRefill time.Time
	tokens     int
	mu         sync.Mutex
}

// NewRateLimiter создает новый rate limiter
// rate - максимальное количество запросов в окне window
// Вызывающий обязан вызвать Stop
func NewRateLimiter(rate int, window time.Duration, clk clock.Clock) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		clock:    clk,
		cleanupC: make(chan struct{}),
		rate:     rate,
		window:   window,
	}

	// Запускаем периодическую очистку старых buckets
	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные buckets для экономии памяти
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets()
		case <-rl.cleanupC:
			return
		}
	}
}

// cleanupOldBuckets удаляет buckets, которые не использовались дольше 2*window
func (rl *RateLimiter) cleanupOldBuckets() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	for key, b := range rl.buckets {
		b.mu.Lock()
		if now.Sub(b.lastRefill) > rl.window*2 {
			delete(rl.buckets, key)
		}
		b.mu.Unlock()
	}
}

// Stop останавливает cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.cleanupC)
	})
}

// Allow проверяет, разрешен ли запрос для данного ключа (обычно IP адрес)
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.clock.Now()

	rl.mu.RLock()
	b, exists := rl.buckets[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// Повторная проверка: bucket мог создать параллельный запрос
		if b, exists = rl.buckets[key]; !exists {
			b = &bucket{tokens: rl.rate, lastRefill: now}
			rl.buckets[key] = b
		}
		rl.mu.Unlock()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Пополняем токены на основе прошедшего времени
	if now.Sub(b.lastRefill) >= rl.window {
		b.tokens = rl.rate
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// retryAfterSeconds - верхняя оценка до пополнения bucket, не меньше 1
func (rl *RateLimiter) retryAfterSeconds() int {
	secs := int(math.Ceil(rl.window.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// PathRateLimit задает отдельный limiter для конкретного пути
type PathRateLimit struct {
	Limiter *RateLimiter
	Path    string
}

// RateLimitByPathMiddleware создает middleware для ограничения частоты запросов по IP
// с кастомными лимитами для путей. Для остальных путей (и при пустом limits)
// используется defaultLimiter
func RateLimitByPathMiddleware(limits []PathRateLimit, defaultLimiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	limiters := make(map[string]*RateLimiter, len(limits))
	for _, limit := range limits {
		limiters[limit.Path] = limit.Limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter, exists := limiters[r.URL.Path]
			if !exists {
				limiter = defaultLimiter
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				logger.WarnContext(r.Context(), "Rate limit exceeded",
					slog.String("ip", key),
					slog.String("method", r.Method),
					slog.String("path", sanitizePath(r.URL.Path)),
				)

				w.Header().Set("Retry-After", strconv.Itoa(limiter.retryAfterSeconds()))
				handlers.SendError(w, logger, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP извлекает IP адрес клиента из запроса
// X-Forwarded-For и X-Real-IP уже разобраны chi RealIP, здесь используется только RemoteAddr
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/localfinds/internal/config"
)

const sweepThreshold = 10000

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter applies a token bucket per client IP to the routes it wraps.
// Rejected requests get a Retry-After header and are answered by onLimit, which must
// write a 429. A nil onLimit writes the standard error envelope.
func ClientRateLimiter(cfg config.RateLimitConfig, onLimit echo.HandlerFunc) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	idleTTL := 10 * cfg.Interval
	if onLimit == nil {
		onLimit = rateLimitExceeded
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			ip := c.RealIP()

			mu.Lock()
			if len(clients) >= sweepThreshold {
				for key, entry := range clients {
					if now.Sub(entry.lastSeen) > idleTTL {
						delete(clients, key)
					}
				}
			}
			entry, ok := clients[ip]
			if !ok {
				entry = &clientLimiter{limiter: rate.NewLimiter(rate.Every(perRequest), cfg.Requests)}
				clients[ip] = entry
			}
			entry.lastSeen = now
			allowed := entry.limiter.AllowN(now, 1)
			mu.Unlock()

			if !allowed {
				retryAfter := int(math.Ceil(perRequest.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return onLimit(c)
			}

			return next(c)
		}
	}
}

func rateLimitExceeded(c echo.Context) error {
	body := map[string]string{"status": "error", "message": "rate limit exceeded"}
	if rid := RequestIDFromContext(c); rid != "" {
		body["request_id"] = rid
	}
	return c.JSON(http.StatusTooManyRequests, body)
}

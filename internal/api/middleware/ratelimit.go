package middleware

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gps-monitor/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RateLimitMiddleware creates a rate limiting middleware
func RateLimitMiddleware(limiter ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting for health checks in development
		if c.FullPath() == "/api/v1/health" && gin.Mode() == gin.DebugMode {
			c.Next()
			return
		}

		clientID := getClientID(c)
		endpoint := getEndpointID(c)

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), clientID, endpoint)
		if err != nil {
			// Don't block requests when the limiter backend is down
			log.WithError(err).WithField("endpoint", endpoint).Warn("rate limiter unavailable")
			c.Header("X-RateLimit-Error", "Rate limiter unavailable")
			c.Next()
			return
		}

		setRateLimitHeaders(c, limiter.LimitFor(clientID, endpoint), allowed, retryAfter)

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"message":    "Rate limit exceeded",
				"error":      fmt.Sprintf("Too many requests. Try again in %v", retryAfter.Round(time.Millisecond)),
				"code":       "RATE_LIMIT_EXCEEDED",
				"retryAfter": retryAfterSeconds(retryAfter),
			})
			return
		}

		c.Next()
	}
}

// getClientID identifies the caller by API key, or by IP and User-Agent.
func getClientID(c *gin.Context) string {
	if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
		return "api:" + apiKey
	}
	return fmt.Sprintf("anon:%s:%s", getClientIP(c), hashString(c.GetHeader("User-Agent")))
}

// getClientIP extracts the real client IP address
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

func hashString(s string) string {
	if s == "" {
		return "unknown"
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

// getEndpointID is "METHOD:/route/template". Unmatched routes share one key.
func getEndpointID(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	return c.Request.Method + ":" + path
}

func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// setRateLimitHeaders sets standard rate limiting headers
func setRateLimitHeaders(c *gin.Context, limit ratelimit.RateLimit, allowed bool, retryAfter time.Duration) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit.RequestsPerMinute))
	c.Header("X-RateLimit-Window", strconv.Itoa(int(limit.WindowSize.Seconds())))
	c.Header("X-RateLimit-Burst", strconv.Itoa(limit.BurstSize))

	if !allowed {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))
	}
}

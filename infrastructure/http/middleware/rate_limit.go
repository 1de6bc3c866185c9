package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/authly/authly/application/port/inbound"
	"github.com/authly/authly/infrastructure/http/response"
	"github.com/authly/authly/infrastructure/service/logger"
)

type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	logger           logger.Logger
}

func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		logger:           log,
	}
}

func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if m.rateLimitService == nil {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := getClientIP(r)

		var key string
		var limit int
		var window time.Duration
		switch {
		case strings.HasSuffix(r.URL.Path, "/login"):
			key = fmt.Sprintf("login:ip:%s", clientIP)
			limit = 10
			window = 15 * time.Minute
		case strings.HasSuffix(r.URL.Path, "/refresh"):
			key = fmt.Sprintf("refresh:ip:%s", clientIP)
			limit = 30
			window = time.Hour
		default:
			key = fmt.Sprintf("general:ip:%s", clientIP)
			limit = 100
			window = time.Minute
		}

		blocked, err := m.rateLimitService.IsBlocked(ctx, key)
		if err != nil {
			// limiter failures never take the service down with them
			m.logger.Error(ctx, "failed to check block status", err, map[string]interface{}{
				"ip": clientIP,
			})
		}
		if blocked {
			logger.LogSecurityEvent(ctx, m.logger, "rate_limit_blocked", "MEDIUM", map[string]interface{}{
				"ip":   clientIP,
				"path": r.URL.Path,
			})
			w.Header().Set("Retry-After", "900")
			response.TooManyRequests(w, "too many requests, please try again later")
			return
		}

		allowed, err := m.rateLimitService.CheckLimit(ctx, key, limit, window)
		if err != nil {
			m.logger.Error(ctx, "failed to check rate limit", err, map[string]interface{}{
				"ip": clientIP,
			})
		} else if !allowed {
			blockDuration := 15 * time.Minute
			if strings.HasSuffix(r.URL.Path, "/login") {
				blockDuration = 30 * time.Minute
			}
			if err := m.rateLimitService.Block(ctx, key, blockDuration, "rate limit exceeded"); err != nil {
				m.logger.Error(ctx, "failed to block client", err, map[string]interface{}{
					"ip": clientIP,
				})
			}
			logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "HIGH", map[string]interface{}{
				"ip":   clientIP,
				"path": r.URL.Path,
			})
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(blockDuration.Seconds())))
			response.TooManyRequests(w, "too many requests, please try again later")
			return
		}

		if err := m.rateLimitService.Increment(ctx, key, window); err != nil {
			m.logger.Error(ctx, "failed to record request", err, map[string]interface{}{
				"ip": clientIP,
			})
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts client IP from request
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

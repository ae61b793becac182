package router

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/cuongbtq/vtryon/internal/api/handler"
	"github.com/cuongbtq/vtryon/shared/redis"
	"github.com/gin-gonic/gin"
)

// LoggerMiddleware logs HTTP requests with slog
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		latency := time.Since(start)

		logger.Info("HTTP Request",
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.String("ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Duration("latency", latency),
			slog.Int("body_size", c.Writer.Size()),
		)

		// Log errors if any
		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				logger.Error("Request error",
					slog.String("error", e.Error()),
					slog.Uint64("type", uint64(e.Type)),
				)
			}
		}
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept-Language, X-Locale, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// LocaleResolver negotiates a supported language. *i18n.Translator implements it.
type LocaleResolver interface {
	Normalize(locale string) (string, bool)
	Detect(acceptLanguage string) string
}

// LocaleMiddleware stores the request language under handler.LocaleKey.
// An explicit X-Locale header wins over Accept-Language.
func LocaleMiddleware(locales LocaleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang, ok := "", false
		if explicit := c.GetHeader("X-Locale"); explicit != "" {
			lang, ok = locales.Normalize(explicit)
		}
		if !ok {
			lang = locales.Detect(c.GetHeader("Accept-Language"))
		}

		c.Set(handler.LocaleKey, lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// RateLimiter decides whether a client may proceed. *redis.FixedWindowLimiter implements it.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (redis.Decision, error)
}

// RateLimitMiddleware limits requests per client IP. Limiter failures let the
// request through.
func RateLimitMiddleware(limiter RateLimiter, tr handler.Translator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("Rate limiter unavailable",
				slog.String("ip", c.ClientIP()),
				slog.String("error", err.Error()),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			lang := tr.Default()
			if v, ok := c.Get(handler.LocaleKey); ok {
				if s, ok := v.(string); ok {
					lang = s
				}
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests",
				"message": tr.T(lang, "errors.rate_limited"),
			})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/metrics"
)

var errTooManyAttempts = errors.New("too many attempts, please try again later")

// RateLimit allows limit requests per client IP within window for the
// named route. Counter failures let the request through.
func RateLimit(store cache.Store, route string, limit int, window time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", route, ctx.ClientIP())

		n, err := store.Incr(ctx.Request.Context(), key, window)
		if err != nil {
			zap.L().Warn("rate limit counter failed", zap.String("key", key), zap.Error(err))
			ctx.Next()
			return
		}
		if n > int64(limit) {
			metrics.RateLimited.WithLabelValues(route).Inc()
			ctx.Header("Retry-After", fmt.Sprintf("%.0f", window.Seconds()))
			response.RenderErr(ctx, response.ErrTooManyRequests(errTooManyAttempts))
			return
		}

		ctx.Next()
	}
}

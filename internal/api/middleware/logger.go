package middleware

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/school-portal-api/internal/pkg/errreport"
)

// Logger writes one zap line per request.
func Logger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ctx.ClientIP()),
		}

		switch {
		case status >= 500:
			zap.L().Error("request", fields...)
		case status >= 400:
			zap.L().Warn("request", fields...)
		default:
			zap.L().Info("request", fields...)
		}
	}
}

// Recovery turns panics into 500s and reports them.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		rid := requestid.Get(ctx)
		zap.L().Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("request_id", rid),
			zap.String("path", ctx.Request.URL.Path),
			zap.Stack("stack"),
		)
		if err, ok := recovered.(error); ok {
			errreport.Report(err, map[string]interface{}{"request_id": rid})
		}
		ctx.AbortWithStatus(500)
	})
}

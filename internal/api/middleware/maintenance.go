package middleware

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
)

const defaultMaintenanceMessage = "The site is undergoing maintenance. Please check back soon."

type MaintenanceSource interface {
	Maintenance(ctx context.Context) (bool, string, error)
}

// Maintenance blocks public routes while either the config switch or the
// school-info flag is on.
type Maintenance struct {
	forced atomic.Bool
	source MaintenanceSource
}

func NewMaintenance(source MaintenanceSource, forced bool) *Maintenance {
	m := &Maintenance{source: source}
	m.forced.Store(forced)
	return m
}

// SetForced is called when the config file is reloaded.
func (m *Maintenance) SetForced(on bool) {
	m.forced.Store(on)
}

func (m *Maintenance) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		on, message := m.forced.Load(), ""
		if !on {
			var err error
			on, message, err = m.source.Maintenance(ctx.Request.Context())
			if err != nil {
				zap.L().Warn("maintenance check failed", zap.Error(err))
			}
		}
		if !on {
			ctx.Next()
			return
		}

		if message == "" {
			message = defaultMaintenanceMessage
		}
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Maintenance{
			MaintenanceMode: true,
			Message:         message,
		})
	}
}

package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/api/middleware"
)

type Notifier interface {
	Attach(conn *websocket.Conn, adminID uint)
}

type NotificationHandler struct {
	hub      Notifier
	upgrader websocket.Upgrader
}

// NewNotificationHandler accepts upgrades from allowedOrigins only. An
// empty list accepts any origin.
func NewNotificationHandler(hub Notifier, allowedOrigins []string) *NotificationHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &NotificationHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// HandleNotifications godoc
// @Summary      Live admin notifications
// @Description  Upgrades to a websocket that streams new admissions, contact messages and result checks.
// @Tags         dashboard
// @Success      101  {string}  string "Switching Protocols"
// @Failure      401  {object}  response.Err
// @Router       /admin/ws [get]
// @Security BearerAuth
func (h *NotificationHandler) HandleNotifications(ctx *gin.Context) {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errors.New("no session")))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Attach(conn, claims.AdminID)
}

package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type DashboardService interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

type DashboardHandler struct {
	svc DashboardService
}

func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{
		svc: svc,
	}
}

// HandleDashboard godoc
// @Summary      Admin dashboard counters
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  domain.DashboardStats
// @Router       /admin/dashboard [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleDashboard(ctx *gin.Context) {
	stats, err := h.svc.Stats(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleDashboard -> h.svc.Stats", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

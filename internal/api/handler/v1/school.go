package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type SchoolService interface {
	Get(ctx context.Context) (domain.SchoolInfo, error)
	Update(ctx context.Context, info domain.SchoolInfo) (domain.SchoolInfo, error)
}

type SchoolHandler struct {
	svc SchoolService
}

func NewSchoolHandler(svc SchoolService) *SchoolHandler {
	return &SchoolHandler{
		svc: svc,
	}
}

// HandleGetSchoolInfo godoc
// @Summary      School profile
// @Tags         public
// @Produce      json
// @Success      200  {object}  domain.SchoolInfo
// @Router       /school-info [get]
func (h *SchoolHandler) HandleGetSchoolInfo(ctx *gin.Context) {
	info, err := h.svc.Get(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetSchoolInfo -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, info)
}

// HandleUpdateSchoolInfo godoc
// @Summary      Update the school profile and maintenance switch
// @Tags         settings
// @Produce      json
// @Param        request  body      request.SchoolInfoRequest true "request body"
// @Success      200      {object}  domain.SchoolInfo
// @Failure      400      {object}  response.Err
// @Router       /admin/school-info [put]
// @Security BearerAuth
func (h *SchoolHandler) HandleUpdateSchoolInfo(ctx *gin.Context) {
	var req request.SchoolInfoRequest
	if !bindJSON(ctx, &req) {
		return
	}

	info, err := h.svc.Update(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateSchoolInfo -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, info)
}

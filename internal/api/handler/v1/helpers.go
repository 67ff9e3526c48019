package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", name, ctx.Param(name))))
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes and validates a request body, rendering a 400 on failure.
func bindJSON(ctx *gin.Context, req interface{ Validate() error }) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}
	return true
}

func bindQuery(ctx *gin.Context, q interface{}) bool {
	if err := ctx.ShouldBindQuery(q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}
	return true
}

func attachment(ctx *gin.Context, fileName string) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
}

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} response.Health
// @Router       /healthz [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Health{Status: "ok", Time: time.Now().UTC()})
}

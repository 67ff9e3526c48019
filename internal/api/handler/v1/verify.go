package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/config"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/school-portal-api/internal/report"
	"github.com/vietanh2810/school-portal-api/internal/service"
)

var errDownloadToken = errors.New("download link is invalid or has expired")

type ResultChecker interface {
	CheckResult(ctx context.Context, req service.CheckResultRequest) (domain.CardVerification, error)
}

type ResultSheetService interface {
	Sheet(ctx context.Context, id uint) (report.ResultSheet, error)
}

// VerifyHandler serves the public result check and the PDF download it unlocks.
type VerifyHandler struct {
	conf    *config.APIConfig
	checker ResultChecker
	sheets  ResultSheetService
}

func NewVerifyHandler(conf *config.APIConfig, checker ResultChecker, sheets ResultSheetService) *VerifyHandler {
	return &VerifyHandler{
		conf:    conf,
		checker: checker,
		sheets:  sheets,
	}
}

// HandleVerifyScratchCard godoc
// @Summary      Check a result with a scratch card
// @Description  Consumes one use of the card. Rate limited per client IP.
// @Tags         public
// @Produce      json
// @Param        request  body      request.VerifyScratchCardRequest true "request body"
// @Success      200      {object}  response.VerifyResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      429      {object}  response.Err
// @Router       /verify-scratch-card [post]
func (h *VerifyHandler) HandleVerifyScratchCard(ctx *gin.Context) {
	var req request.VerifyScratchCardRequest
	if !bindJSON(ctx, &req) {
		return
	}

	v, err := h.checker.CheckResult(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleVerifyScratchCard -> h.checker.CheckResult", err)
		return
	}

	token, err := jwthelper.GenerateDownloadToken([]byte(h.conf.JWTSigningKey), v.Result.ID, h.conf.DownloadTokenTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleVerifyScratchCard -> jwthelper.GenerateDownloadToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.VerifyResponse{
		CardVerification: v,
		DownloadURL:      fmt.Sprintf("/api/results/%d/pdf?token=%s", v.Result.ID, token),
	})
}

// HandleDownloadResult godoc
// @Summary      Download a checked result as PDF
// @Tags         public
// @Produce      application/pdf
// @Param        id     path   int    true "result id"
// @Param        token  query  string true "download token from the result check"
// @Success      200  {file}    file
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /results/{id}/pdf [get]
func (h *VerifyHandler) HandleDownloadResult(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	claims, err := jwthelper.ParseToken([]byte(h.conf.JWTSigningKey), ctx.Query("token"), jwthelper.PurposeDownload)
	if err != nil || claims.ResultID != id {
		response.RenderErr(ctx, response.ErrUnauthorized(errDownloadToken))
		return
	}

	renderSheetPDF(ctx, h.sheets, id)
}

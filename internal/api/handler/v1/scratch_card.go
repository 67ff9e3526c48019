package v1

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/report"
	"github.com/vietanh2810/school-portal-api/internal/service"
)

type ScratchCardService interface {
	Generate(ctx context.Context, req service.GenerateCardsRequest) ([]domain.ScratchCard, error)
	Get(ctx context.Context, id uint) (domain.ScratchCard, error)
	List(ctx context.Context, filter domain.CardFilter) ([]domain.ScratchCard, int64, error)
	Export(ctx context.Context, filter domain.CardFilter) ([]domain.ScratchCard, error)
	Toggle(ctx context.Context, id uint) (domain.ScratchCard, error)
	RegeneratePIN(ctx context.Context, id uint) (domain.ScratchCard, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (domain.CardStats, error)
}

type ScratchCardHandler struct {
	svc ScratchCardService
}

func NewScratchCardHandler(svc ScratchCardService) *ScratchCardHandler {
	return &ScratchCardHandler{
		svc: svc,
	}
}

// HandleListCards godoc
// @Summary      List scratch cards
// @Description  Status filtering uses the effective status, so expired cards match status=expired.
// @Tags         scratch-cards
// @Produce      json
// @Param        page    query  int     false "page (1-based)"
// @Param        limit   query  int     false "page size"
// @Param        q       query  string  false "search serial number or pin"
// @Param        status  query  string  false "unused, used, expired or deactivated"
// @Success      200  {object}  response.List{data=[]domain.ScratchCard}
// @Router       /admin/scratch-cards [get]
// @Security BearerAuth
func (h *ScratchCardHandler) HandleListCards(ctx *gin.Context) {
	var q request.CardQuery
	if !bindQuery(ctx, &q) {
		return
	}
	filter := q.ToFilter()

	cards, total, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListCards -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewList(cards, total, filter.Page))
}

// HandleGenerateCards godoc
// @Summary      Generate a batch of scratch cards
// @Tags         scratch-cards
// @Produce      json
// @Param        request  body      request.GenerateCardsRequest true "request body"
// @Success      201      {array}   domain.ScratchCard
// @Failure      400      {object}  response.Err
// @Router       /admin/scratch-cards/generate [post]
// @Security BearerAuth
func (h *ScratchCardHandler) HandleGenerateCards(ctx *gin.Context) {
	var req request.GenerateCardsRequest
	if !bindJSON(ctx, &req) {
		return
	}
	gen, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cards, err := h.svc.Generate(ctx.Request.Context(), gen)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGenerateCards -> h.svc.Generate", err)
		return
	}

	ctx.JSON(http.StatusCreated, cards)
}

// HandleCardStats godoc
// @Summary      Scratch card counters
// @Tags         scratch-cards
// @Produce      json
// @Success      200  {object}  domain.CardStats
// @Router       /admin/scratch-cards/stats [get]
// @Security BearerAuth
func (h *ScratchCardHandler) HandleCardStats(ctx *gin.Context) {
	stats, err := h.svc.Stats(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCardStats -> h.svc.Stats", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleExportCards godoc
// @Summary      Export scratch cards to Excel
// @Tags         scratch-cards
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        q       query  string  false "search serial number or pin"
// @Param        status  query  string  false "effective status"
// @Success      200  {file}  file
// @Router       /admin/scratch-cards/export [get]
// @Security BearerAuth
func (h *ScratchCardHandler) HandleExportCards(ctx *gin.Context) {
	var q request.CardQuery
	if !bindQuery(ctx, &q) {
		return
	}

	cards, err := h.svc.Export(ctx.Request.Context(), q.ToFilter())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleExportCards -> h.svc.Export", err)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err = report.WriteCards(&buf, cards, now); err != nil {
		renderServiceErr(ctx, "v1.HandleExportCards -> report.WriteCards", err)
		return
	}
	attachment(ctx, report.CardsFileName(now))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// HandleGetCard godoc
// @Summary      Get a scratch card
// @Tags         scratch-cards
// @Produce      json
// @Param        id   path      int true "card id"
// @Success      200  {object}  domain.ScratchCard
// @Failure      404  {object}  response.Err
// @Router       /admin/scratch-cards/{id} [get]
// @Security BearerAuth
func (h *ScratchCardHandler) HandleGetCard(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	card, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetCard -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, card)
}

// HandleToggleCard godoc
// @Summary      Activate or deactivate a scratch card
// @Tags         scratch-cards
// @Produce      json
// @Param        id   path      int true "card id"
// @Success      200  {object}  domain.ScratchCard
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /admin/scratch-cards/{id}/toggle [patch]
// @Security BearerAuth
func (h *ScratchCardHandler) HandleToggleCard(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	card, err := h.svc.Toggle(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleToggleCard -> h.svc.Toggle", err)
		return
	}

	ctx.JSON(http.StatusOK, card)
}

// HandleRegeneratePIN godoc
// @Summary      Replace a scratch card PIN
// @Tags         scratch-cards
// @Produce      json
// @Param        id   path      int true "card id"
// @Success      200  {object}  domain.ScratchCard
// @Failure      404  {object}  response.Err
// @Router       /admin/scratch-cards/{id}/regenerate-pin [post]
// @Security BearerAuth
func (h *ScratchCardHandler) HandleRegeneratePIN(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	card, err := h.svc.RegeneratePIN(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRegeneratePIN -> h.svc.RegeneratePIN", err)
		return
	}

	ctx.JSON(http.StatusOK, card)
}

// HandleDeleteCard godoc
// @Summary      Delete a scratch card
// @Tags         scratch-cards
// @Param        id   path  int true "card id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /admin/scratch-cards/{id} [delete]
// @Security BearerAuth
func (h *ScratchCardHandler) HandleDeleteCard(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteCard -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

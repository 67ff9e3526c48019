package v1

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/report"
)

type ResultService interface {
	Create(ctx context.Context, result domain.Result) (domain.Result, error)
	Get(ctx context.Context, id uint) (domain.Result, error)
	List(ctx context.Context, filter domain.ResultFilter) ([]domain.Result, int64, error)
	Update(ctx context.Context, result domain.Result) (domain.Result, error)
	Delete(ctx context.Context, id uint) error
	Cumulative(ctx context.Context, className, session string) ([]domain.CumulativeResult, error)
	Broadsheet(ctx context.Context, className, session string, term domain.Term) ([]domain.Result, error)
	Sheet(ctx context.Context, id uint) (report.ResultSheet, error)
}

type ResultHandler struct {
	svc ResultService
}

func NewResultHandler(svc ResultService) *ResultHandler {
	return &ResultHandler{
		svc: svc,
	}
}

// HandleListResults godoc
// @Summary      List results
// @Tags         results
// @Produce      json
// @Param        page        query  int     false "page (1-based)"
// @Param        limit       query  int     false "page size"
// @Param        student_id  query  int     false "student"
// @Param        class_name  query  string  false "class"
// @Param        session     query  string  false "session, e.g. 2024/2025"
// @Param        term        query  string  false "term"
// @Success      200  {object}  response.List{data=[]domain.Result}
// @Router       /admin/results [get]
// @Security BearerAuth
func (h *ResultHandler) HandleListResults(ctx *gin.Context) {
	var q request.ResultQuery
	if !bindQuery(ctx, &q) {
		return
	}
	filter := q.ToFilter()

	results, total, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListResults -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewList(results, total, filter.Page))
}

// HandleCreateResult godoc
// @Summary      Enter a term result
// @Description  Grades every subject and recomputes class positions for the term.
// @Tags         results
// @Produce      json
// @Param        request  body      request.ResultRequest true "request body"
// @Success      201      {object}  domain.Result
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /admin/results [post]
// @Security BearerAuth
func (h *ResultHandler) HandleCreateResult(ctx *gin.Context) {
	var req request.ResultRequest
	if !bindJSON(ctx, &req) {
		return
	}
	result, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), result)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateResult -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetResult godoc
// @Summary      Get a result
// @Tags         results
// @Produce      json
// @Param        id   path      int true "result id"
// @Success      200  {object}  domain.Result
// @Failure      404  {object}  response.Err
// @Router       /admin/results/{id} [get]
// @Security BearerAuth
func (h *ResultHandler) HandleGetResult(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	result, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetResult -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleUpdateResult godoc
// @Summary      Update a result
// @Tags         results
// @Produce      json
// @Param        id       path      int true "result id"
// @Param        request  body      request.ResultRequest true "request body"
// @Success      200      {object}  domain.Result
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/results/{id} [put]
// @Security BearerAuth
func (h *ResultHandler) HandleUpdateResult(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req request.ResultRequest
	if !bindJSON(ctx, &req) {
		return
	}
	result, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	result.ID = id

	updated, err := h.svc.Update(ctx.Request.Context(), result)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateResult -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteResult godoc
// @Summary      Delete a result
// @Tags         results
// @Param        id   path  int true "result id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /admin/results/{id} [delete]
// @Security BearerAuth
func (h *ResultHandler) HandleDeleteResult(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteResult -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCumulative godoc
// @Summary      Cumulative results for a class session
// @Tags         results
// @Produce      json
// @Param        class_name  query  string true "class"
// @Param        session     query  string true "session, e.g. 2024/2025"
// @Success      200  {array}   domain.CumulativeResult
// @Failure      400  {object}  response.Err
// @Router       /admin/results/cumulative [get]
// @Security BearerAuth
func (h *ResultHandler) HandleCumulative(ctx *gin.Context) {
	var q request.GroupQuery
	if !bindQuery(ctx, &q) {
		return
	}
	if err := q.Validate(false); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rows, err := h.svc.Cumulative(ctx.Request.Context(), q.ClassName, q.Session)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCumulative -> h.svc.Cumulative", err)
		return
	}

	ctx.JSON(http.StatusOK, rows)
}

// HandleBroadsheet godoc
// @Summary      Class broadsheet for a term
// @Description  JSON by default; format=xlsx downloads an Excel workbook.
// @Tags         results
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        class_name  query  string true  "class"
// @Param        session     query  string true  "session"
// @Param        term        query  string true  "term"
// @Param        format      query  string false "json or xlsx"
// @Success      200  {array}   report.BroadsheetRow
// @Failure      400  {object}  response.Err
// @Router       /admin/results/broadsheet [get]
// @Security BearerAuth
func (h *ResultHandler) HandleBroadsheet(ctx *gin.Context) {
	var q request.GroupQuery
	if !bindQuery(ctx, &q) {
		return
	}
	if err := q.Validate(true); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	term := domain.Term(q.Term)

	results, err := h.svc.Broadsheet(ctx.Request.Context(), q.ClassName, q.Session, term)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleBroadsheet -> h.svc.Broadsheet", err)
		return
	}

	if ctx.Query("format") != "xlsx" {
		ctx.JSON(http.StatusOK, report.BroadsheetRows(results))
		return
	}

	var buf bytes.Buffer
	if err = report.WriteBroadsheet(&buf, q.ClassName, q.Session, term, results); err != nil {
		renderServiceErr(ctx, "v1.HandleBroadsheet -> report.WriteBroadsheet", err)
		return
	}
	attachment(ctx, report.BroadsheetFileName(q.ClassName, q.Session, term))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// HandleResultPDF godoc
// @Summary      Download a result sheet as PDF
// @Tags         results
// @Produce      application/pdf
// @Param        id   path  int true "result id"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Err
// @Router       /admin/results/{id}/pdf [get]
// @Security BearerAuth
func (h *ResultHandler) HandleResultPDF(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	renderSheetPDF(ctx, h.svc, id)
}

// HandleResultPrint godoc
// @Summary      Printable HTML result sheet
// @Tags         results
// @Produce      html
// @Param        id   path  int true "result id"
// @Success      200  {string}  string
// @Failure      404  {object}  response.Err
// @Router       /admin/results/{id}/print [get]
// @Security BearerAuth
func (h *ResultHandler) HandleResultPrint(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	sheet, err := h.svc.Sheet(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleResultPrint -> h.svc.Sheet", err)
		return
	}

	var buf bytes.Buffer
	if err = report.RenderResultHTML(&buf, sheet); err != nil {
		renderServiceErr(ctx, "v1.HandleResultPrint -> report.RenderResultHTML", err)
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func renderSheetPDF(ctx *gin.Context, svc ResultSheetService, id uint) {
	sheet, err := svc.Sheet(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.renderSheetPDF -> svc.Sheet", err)
		return
	}

	var buf bytes.Buffer
	if err = report.RenderResultPDF(&buf, sheet); err != nil {
		renderServiceErr(ctx, fmt.Sprintf("v1.renderSheetPDF -> report.RenderResultPDF(%d)", id), err)
		return
	}
	attachment(ctx, report.ResultFileName(sheet.Student, sheet.Result))
	ctx.Data(http.StatusOK, pdfContentType, buf.Bytes())
}

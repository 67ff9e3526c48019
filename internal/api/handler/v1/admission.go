package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type AdmissionService interface {
	Settings(ctx context.Context) (domain.AdmissionSettings, error)
	UpdateSettings(ctx context.Context, settings domain.AdmissionSettings) (domain.AdmissionSettings, error)
	Apply(ctx context.Context, app domain.AdmissionApplication) (domain.AdmissionApplication, error)
	Get(ctx context.Context, id uint) (domain.AdmissionApplication, error)
	List(ctx context.Context, filter domain.AdmissionFilter) ([]domain.AdmissionApplication, int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.AdmissionStatus) (domain.AdmissionApplication, error)
	Delete(ctx context.Context, id uint) error
}

type AdmissionHandler struct {
	svc AdmissionService
}

func NewAdmissionHandler(svc AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{
		svc: svc,
	}
}

// HandleGetAdmissionSettings godoc
// @Summary      Current admission settings
// @Tags         public
// @Produce      json
// @Success      200  {object}  domain.AdmissionSettings
// @Router       /admission-settings [get]
func (h *AdmissionHandler) HandleGetAdmissionSettings(ctx *gin.Context) {
	settings, err := h.svc.Settings(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetAdmissionSettings -> h.svc.Settings", err)
		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleApply godoc
// @Summary      Submit an admission application
// @Tags         public
// @Produce      json
// @Param        request  body      request.ApplicationRequest true "request body"
// @Success      201      {object}  domain.AdmissionApplication
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err "admissions closed"
// @Router       /admission [post]
func (h *AdmissionHandler) HandleApply(ctx *gin.Context) {
	var req request.ApplicationRequest
	if !bindJSON(ctx, &req) {
		return
	}
	app, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	app, err = h.svc.Apply(ctx.Request.Context(), app)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleApply -> h.svc.Apply", err)
		return
	}

	ctx.JSON(http.StatusCreated, app)
}

// HandleListApplications godoc
// @Summary      List admission applications
// @Tags         admissions
// @Produce      json
// @Param        page    query  int     false "page (1-based)"
// @Param        limit   query  int     false "page size"
// @Param        q       query  string  false "search names, email and application number"
// @Param        status  query  string  false "pending, reviewing, accepted or rejected"
// @Success      200  {object}  response.List{data=[]domain.AdmissionApplication}
// @Router       /admin/admissions [get]
// @Security BearerAuth
func (h *AdmissionHandler) HandleListApplications(ctx *gin.Context) {
	var q request.AdmissionQuery
	if !bindQuery(ctx, &q) {
		return
	}
	filter := q.ToFilter()

	apps, total, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListApplications -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewList(apps, total, filter.Page))
}

// HandleGetApplication godoc
// @Summary      Get an admission application
// @Tags         admissions
// @Produce      json
// @Param        id   path      int true "application id"
// @Success      200  {object}  domain.AdmissionApplication
// @Failure      404  {object}  response.Err
// @Router       /admin/admissions/{id} [get]
// @Security BearerAuth
func (h *AdmissionHandler) HandleGetApplication(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	app, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetApplication -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, app)
}

// HandleUpdateApplicationStatus godoc
// @Summary      Move an application to another status
// @Tags         admissions
// @Produce      json
// @Param        id       path      int                   true "application id"
// @Param        request  body      request.StatusRequest true "request body"
// @Success      200      {object}  domain.AdmissionApplication
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/admissions/{id}/status [patch]
// @Security BearerAuth
func (h *AdmissionHandler) HandleUpdateApplicationStatus(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	app, err := h.svc.UpdateStatus(ctx.Request.Context(), id, domain.AdmissionStatus(req.Status))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateApplicationStatus -> h.svc.UpdateStatus", err)
		return
	}

	ctx.JSON(http.StatusOK, app)
}

// HandleDeleteApplication godoc
// @Summary      Delete an admission application
// @Tags         admissions
// @Param        id   path  int true "application id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /admin/admissions/{id} [delete]
// @Security BearerAuth
func (h *AdmissionHandler) HandleDeleteApplication(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteApplication -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUpdateAdmissionSettings godoc
// @Summary      Update admission settings
// @Tags         admissions
// @Produce      json
// @Param        request  body      request.AdmissionSettingsRequest true "request body"
// @Success      200      {object}  domain.AdmissionSettings
// @Failure      400      {object}  response.Err
// @Router       /admin/admission-settings [put]
// @Security BearerAuth
func (h *AdmissionHandler) HandleUpdateAdmissionSettings(ctx *gin.Context) {
	var req request.AdmissionSettingsRequest
	if !bindJSON(ctx, &req) {
		return
	}
	settings, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	settings, err = h.svc.UpdateSettings(ctx.Request.Context(), settings)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateAdmissionSettings -> h.svc.UpdateSettings", err)
		return
	}

	ctx.JSON(http.StatusOK, settings)
}

package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type ContactService interface {
	Submit(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error)
	List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.MessageStatus) (domain.ContactMessage, error)
	Delete(ctx context.Context, id uint) error
}

type ContactHandler struct {
	svc ContactService
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{
		svc: svc,
	}
}

// HandleSubmitContact godoc
// @Summary      Send a message to the school
// @Tags         public
// @Produce      json
// @Param        request  body      request.ContactRequest true "request body"
// @Success      201      {object}  response.Message
// @Failure      400      {object}  response.Err
// @Router       /contact [post]
func (h *ContactHandler) HandleSubmitContact(ctx *gin.Context) {
	var req request.ContactRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if _, err := h.svc.Submit(ctx.Request.Context(), req.ToDomain()); err != nil {
		renderServiceErr(ctx, "v1.HandleSubmitContact -> h.svc.Submit", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.Message{Message: "Thank you, your message has been received."})
}

// HandleListMessages godoc
// @Summary      List contact messages
// @Tags         contact
// @Produce      json
// @Param        page    query  int     false "page (1-based)"
// @Param        limit   query  int     false "page size"
// @Param        status  query  string  false "new, read or replied"
// @Success      200  {object}  response.List{data=[]domain.ContactMessage}
// @Router       /admin/contact-messages [get]
// @Security BearerAuth
func (h *ContactHandler) HandleListMessages(ctx *gin.Context) {
	var q request.ContactQuery
	if !bindQuery(ctx, &q) {
		return
	}
	filter := q.ToFilter()

	msgs, total, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListMessages -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewList(msgs, total, filter.Page))
}

// HandleUpdateMessageStatus godoc
// @Summary      Mark a message read or replied
// @Tags         contact
// @Produce      json
// @Param        id       path      int                   true "message id"
// @Param        request  body      request.StatusRequest true "request body"
// @Success      200      {object}  domain.ContactMessage
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/contact-messages/{id}/status [patch]
// @Security BearerAuth
func (h *ContactHandler) HandleUpdateMessageStatus(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	msg, err := h.svc.UpdateStatus(ctx.Request.Context(), id, domain.MessageStatus(req.Status))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateMessageStatus -> h.svc.UpdateStatus", err)
		return
	}

	ctx.JSON(http.StatusOK, msg)
}

// HandleDeleteMessage godoc
// @Summary      Delete a contact message
// @Tags         contact
// @Param        id   path  int true "message id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /admin/contact-messages/{id} [delete]
// @Security BearerAuth
func (h *ContactHandler) HandleDeleteMessage(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteMessage -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

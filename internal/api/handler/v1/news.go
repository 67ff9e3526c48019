package v1

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/domain"
)

const maxImageSize = 5 << 20

type NewsService interface {
	PublicList(ctx context.Context, filter domain.NewsFilter) ([]domain.News, int64, error)
	PublicGet(ctx context.Context, idOrSlug string) (domain.News, error)
	List(ctx context.Context, filter domain.NewsFilter) ([]domain.News, int64, error)
	Get(ctx context.Context, id uint) (domain.News, error)
	Create(ctx context.Context, news domain.News) (domain.News, error)
	Update(ctx context.Context, news domain.News) (domain.News, error)
	SetPublished(ctx context.Context, id uint, published bool) (domain.News, error)
	Delete(ctx context.Context, id uint) error
	UploadImage(ctx context.Context, id uint, contentType string, r io.Reader) (domain.News, error)
}

type NewsHandler struct {
	svc NewsService
}

func NewNewsHandler(svc NewsService) *NewsHandler {
	return &NewsHandler{
		svc: svc,
	}
}

// HandlePublicListNews godoc
// @Summary      List published news
// @Tags         public
// @Produce      json
// @Param        page      query  int     false "page (1-based)"
// @Param        limit     query  int     false "page size"
// @Param        q         query  string  false "search title and content"
// @Param        category  query  string  false "category"
// @Success      200  {object}  response.List{data=[]domain.News}
// @Router       /news [get]
func (h *NewsHandler) HandlePublicListNews(ctx *gin.Context) {
	var q request.NewsQuery
	if !bindQuery(ctx, &q) {
		return
	}
	filter := q.ToFilter()

	items, total, err := h.svc.PublicList(ctx.Request.Context(), filter)
	if err != nil {
		renderServiceErr(ctx, "v1.HandlePublicListNews -> h.svc.PublicList", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewList(items, total, filter.Page))
}

// HandlePublicGetNews godoc
// @Summary      Get a published news post
// @Tags         public
// @Produce      json
// @Param        idOrSlug  path      string true "news id or slug"
// @Success      200       {object}  domain.News
// @Failure      404       {object}  response.Err
// @Router       /news/{idOrSlug} [get]
func (h *NewsHandler) HandlePublicGetNews(ctx *gin.Context) {
	news, err := h.svc.PublicGet(ctx.Request.Context(), ctx.Param("idOrSlug"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandlePublicGetNews -> h.svc.PublicGet", err)
		return
	}

	ctx.JSON(http.StatusOK, news)
}

// HandleListNews godoc
// @Summary      List news including drafts
// @Tags         news
// @Produce      json
// @Param        page      query  int     false "page (1-based)"
// @Param        limit     query  int     false "page size"
// @Param        q         query  string  false "search title and content"
// @Param        category  query  string  false "category"
// @Success      200  {object}  response.List{data=[]domain.News}
// @Router       /admin/news [get]
// @Security BearerAuth
func (h *NewsHandler) HandleListNews(ctx *gin.Context) {
	var q request.NewsQuery
	if !bindQuery(ctx, &q) {
		return
	}
	filter := q.ToFilter()

	items, total, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListNews -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewList(items, total, filter.Page))
}

// HandleCreateNews godoc
// @Summary      Create a news post
// @Tags         news
// @Produce      json
// @Param        request  body      request.NewsRequest true "request body"
// @Success      201      {object}  domain.News
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /admin/news [post]
// @Security BearerAuth
func (h *NewsHandler) HandleCreateNews(ctx *gin.Context) {
	var req request.NewsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	news, err := h.svc.Create(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateNews -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, news)
}

// HandleGetNews godoc
// @Summary      Get a news post
// @Tags         news
// @Produce      json
// @Param        id   path      int true "news id"
// @Success      200  {object}  domain.News
// @Failure      404  {object}  response.Err
// @Router       /admin/news/{id} [get]
// @Security BearerAuth
func (h *NewsHandler) HandleGetNews(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	news, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetNews -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, news)
}

// HandleUpdateNews godoc
// @Summary      Update a news post
// @Tags         news
// @Produce      json
// @Param        id       path      int                 true "news id"
// @Param        request  body      request.NewsRequest true "request body"
// @Success      200      {object}  domain.News
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/news/{id} [put]
// @Security BearerAuth
func (h *NewsHandler) HandleUpdateNews(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req request.NewsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	news := req.ToDomain()
	news.ID = id
	news, err := h.svc.Update(ctx.Request.Context(), news)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateNews -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, news)
}

// HandlePublishNews godoc
// @Summary      Publish or unpublish a news post
// @Tags         news
// @Produce      json
// @Param        id       path      int                    true "news id"
// @Param        request  body      request.PublishRequest true "request body"
// @Success      200      {object}  domain.News
// @Failure      404      {object}  response.Err
// @Router       /admin/news/{id}/publish [patch]
// @Security BearerAuth
func (h *NewsHandler) HandlePublishNews(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req request.PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	news, err := h.svc.SetPublished(ctx.Request.Context(), id, req.Published)
	if err != nil {
		renderServiceErr(ctx, "v1.HandlePublishNews -> h.svc.SetPublished", err)
		return
	}

	ctx.JSON(http.StatusOK, news)
}

// HandleUploadNewsImage godoc
// @Summary      Upload a cover image
// @Tags         news
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      int   true "news id"
// @Param        image  formData  file  true "jpeg, png, gif or webp image"
// @Success      200    {object}  domain.News
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /admin/news/{id}/image [post]
// @Security BearerAuth
func (h *NewsHandler) HandleUploadNewsImage(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxImageSize)
	header, err := ctx.FormFile("image")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	defer file.Close()

	news, err := h.svc.UploadImage(ctx.Request.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUploadNewsImage -> h.svc.UploadImage", err)
		return
	}

	ctx.JSON(http.StatusOK, news)
}

// HandleDeleteNews godoc
// @Summary      Delete a news post
// @Tags         news
// @Param        id   path  int true "news id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /admin/news/{id} [delete]
// @Security BearerAuth
func (h *NewsHandler) HandleDeleteNews(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteNews -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

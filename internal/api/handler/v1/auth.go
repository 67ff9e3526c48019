package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/api/middleware"
	"github.com/vietanh2810/school-portal-api/internal/config"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/school-portal-api/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.Admin, error)
	GetAdmin(ctx context.Context, id uint) (domain.Admin, error)
}

type SessionService interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type AuthHandler struct {
	conf     *config.APIConfig
	svc      AuthService
	sessions SessionService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, sessions SessionService) *AuthHandler {
	return &AuthHandler{
		conf:     conf,
		svc:      svc,
		sessions: sessions,
	}
}

// HandleLogin godoc
// @Summary      Login an administrator
// @Description  Returns a bearer token and also sets it as an http-only session cookie.
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if !bindJSON(ctx, &req) {
		return
	}

	admin, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, claims, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), admin.ID, ctx.Request.UserAgent(), h.conf.TokenTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookie, token, int(h.conf.TokenTTL.Seconds()), "/api", "", h.conf.SecureCookies, true)

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Admin:     admin,
	})
}

// HandleLogout godoc
// @Summary      Logout the current administrator
// @Tags         auth
// @Produce      json
// @Success      200      {object}   response.Message
// @Failure      401      {object}   response.Err
// @Router       /admin/logout [post]
// @Security BearerAuth
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errors.New("no session")))
		return
	}

	if err := h.sessions.Revoke(ctx.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		err = fmt.Errorf("v1.HandleLogout -> h.sessions.Revoke -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.SetCookie(middleware.SessionCookie, "", -1, "/api", "", h.conf.SecureCookies, true)
	ctx.JSON(http.StatusOK, response.Message{Message: "logged out"})
}

// HandleSession godoc
// @Summary      Current administrator
// @Tags         auth
// @Produce      json
// @Success      200      {object}   domain.Admin
// @Failure      401      {object}   response.Err
// @Router       /admin/session [get]
// @Security BearerAuth
func (h *AuthHandler) HandleSession(ctx *gin.Context) {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errors.New("no session")))
		return
	}

	admin, err := h.svc.GetAdmin(ctx.Request.Context(), claims.AdminID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}
		renderServiceErr(ctx, "v1.HandleSession -> h.svc.GetAdmin", err)
		return
	}

	ctx.JSON(http.StatusOK, admin)
}

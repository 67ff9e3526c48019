package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/pkg/jwthelper"
)

const (
	SessionCookie = "session"

	contextKeyClaims = "claims"
)

var (
	errMissingToken    = errors.New("missing session token")
	errRevokedToken    = errors.New("session has been logged out")
	errUserAgentChange = errors.New("session was issued to another client")
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Authenticator struct {
	key      []byte
	sessions RevocationChecker
}

func NewAuthenticator(signingKey string, sessions RevocationChecker) *Authenticator {
	return &Authenticator{
		key:      []byte(signingKey),
		sessions: sessions,
	}
}

// VerifyJWT accepts a bearer token or the session cookie.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			tokenString, _ = ctx.Cookie(SessionCookie)
		}
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, tokenString, jwthelper.PurposeSession)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}
		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errUserAgentChange))
			return
		}

		revoked, err := a.sessions.IsRevoked(ctx.Request.Context(), claims.ID)
		if err != nil {
			err = fmt.Errorf("middleware.VerifyJWT -> a.sessions.IsRevoked -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
		if revoked {
			response.RenderErr(ctx, response.ErrUnauthorized(errRevokedToken))
			return
		}

		ctx.Set(contextKeyClaims, claims)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// ClaimsFrom returns the session claims stored by VerifyJWT.
func ClaimsFrom(ctx *gin.Context) (*jwthelper.Claims, bool) {
	v, ok := ctx.Get(contextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwthelper.Claims)
	return claims, ok
}

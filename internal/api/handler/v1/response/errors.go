package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/school-portal-api/internal/pkg/errreport"
)

type Err struct {
	Err        error  `json:"-"`
	StatusCode int    `json:"status_code"`
	StatusText string `json:"status_text"`
	Message    string `json:"message"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

// RenderErr writes e as JSON and aborts the chain. Server errors are
// logged and reported; their details never reach the client.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.StatusCode >= http.StatusInternalServerError {
		rid := requestid.Get(ctx)
		zap.L().Error(e.Error(),
			zap.String("request_id", rid),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
		)
		errreport.Report(e.Err, map[string]interface{}{
			"request_id": rid,
			"method":     ctx.Request.Method,
			"path":       ctx.FullPath(),
		})
	}

	ctx.AbortWithStatusJSON(e.StatusCode, e)
}

func newErr(err error, status int, message string) *Err {
	return &Err{
		Err:        err,
		StatusCode: status,
		StatusText: http.StatusText(status),
		Message:    message,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(err, http.StatusBadRequest, err.Error())
}

func ErrWrongCredentials(err error) *Err {
	return newErr(err, http.StatusUnauthorized, "wrong email or password")
}

func ErrUnauthorized(err error) *Err {
	return newErr(err, http.StatusUnauthorized, "authentication required")
}

func ErrPermissionDenied(err error) *Err {
	return newErr(err, http.StatusForbidden, err.Error())
}

func ErrNotFound(resource, field string, value interface{}) *Err {
	err := fmt.Errorf("%s with %s %v not found", resource, field, value)
	return newErr(err, http.StatusNotFound, err.Error())
}

// ErrResourceNotFound is ErrNotFound for errors that already name what is missing.
func ErrResourceNotFound(err error) *Err {
	return newErr(err, http.StatusNotFound, err.Error())
}

func ErrConflict(err error) *Err {
	return newErr(err, http.StatusConflict, err.Error())
}

func ErrTooManyRequests(err error) *Err {
	return newErr(err, http.StatusTooManyRequests, err.Error())
}

func ErrInternalServerError(err error) *Err {
	if err == nil {
		err = errors.New("internal server error")
	}
	return newErr(err, http.StatusInternalServerError, "something went wrong, please try again later")
}

package v1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/report"
	"github.com/vietanh2810/school-portal-api/internal/service"
	"github.com/vietanh2810/school-portal-api/internal/storage"
)

var (
	notFoundErrs = []error{
		service.ErrAdminNotFound,
		service.ErrStudentNotFound,
		service.ErrResultNotFound,
		service.ErrCardNotFound,
		service.ErrNewsNotFound,
		service.ErrApplicationNotFound,
		service.ErrMessageNotFound,
	}
	conflictErrs = []error{
		service.ErrAdminEmailExists,
		service.ErrAdmissionNumberExists,
		service.ErrResultExists,
		service.ErrNewsSlugExists,
		service.ErrCardNotToggleable,
	}
	forbiddenErrs = []error{
		service.ErrCardDeactivated,
		service.ErrCardExpired,
		service.ErrCardUsageExhausted,
		service.ErrCardBoundElsewhere,
		service.ErrAdmissionsClosed,
	}
	badRequestErrs = []error{
		service.ErrInvalidBatchSize,
		service.ErrExpiryInPast,
		service.ErrDuplicateSubject,
		service.ErrInvalidImage,
		service.ErrClassNotOffered,
		service.ErrInvalidAdmissionStep,
		service.ErrInvalidMessageStatus,
		report.ErrEmptyWorkbook,
		report.ErrMissingColumns,
		storage.ErrInvalidKey,
	}
)

// renderServiceErr maps known service errors to client errors and
// everything else to a logged 500 tagged with op.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	if target, ok := matchErr(err, notFoundErrs); ok {
		response.RenderErr(ctx, response.ErrResourceNotFound(target))
		return
	}
	if target, ok := matchErr(err, conflictErrs); ok {
		response.RenderErr(ctx, response.ErrConflict(target))
		return
	}
	if target, ok := matchErr(err, forbiddenErrs); ok {
		response.RenderErr(ctx, response.ErrPermissionDenied(target))
		return
	}
	if _, ok := matchErr(err, badRequestErrs); ok {
		response.RenderErr(ctx, response.ErrBadRequest(clientErr(err)))
		return
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}

// clientErr drops the call-chain prefix added by fmt.Errorf("a -> %w").
func clientErr(err error) error {
	msg := err.Error()
	if i := strings.LastIndex(msg, " -> "); i >= 0 {
		msg = msg[i+len(" -> "):]
	}
	return errors.New(msg)
}

func matchErr(err error, targets []error) (error, bool) {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target, true
		}
	}
	return nil, false
}

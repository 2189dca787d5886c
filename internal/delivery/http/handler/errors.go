package handler

import (
	"errors"
	"net/http"

	appErrors "buyback-logistics/pkg/errors"
	"buyback-logistics/pkg/utils"

	"github.com/gin-gonic/gin"
)

// statusForCode maps business error codes to HTTP statuses. Booking and
// transition rejections are conflicts, not server faults.
var statusForCode = map[string]int{
	appErrors.CodeValidation:        http.StatusBadRequest,
	appErrors.CodeNotFound:          http.StatusNotFound,
	appErrors.CodeSlotFull:          http.StatusConflict,
	appErrors.CodeSlotBlocked:       http.StatusConflict,
	appErrors.CodeSlotInPast:        http.StatusConflict,
	appErrors.CodeSameDayCutoff:     http.StatusConflict,
	appErrors.CodeCancelWindow:      http.StatusConflict,
	appErrors.CodeNotEligible:       http.StatusConflict,
	appErrors.CodeInvalidTransition: http.StatusConflict,
}

// respondError writes a structured error response. AppErrors carry their
// code as a machine-readable rejection reason; anything else is opaque.
func respondError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		status, ok := statusForCode[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		utils.RejectionResponse(c, status, appErr.Code, appErr.Message)
		return
	}

	c.Error(err)
	utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}

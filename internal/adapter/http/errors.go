package http

import (
	"errors"
	"net/http"

	domain "peerly-ledger/internal/domain/loan"
	"peerly-ledger/internal/logger"

	"github.com/labstack/echo/v4"
)

// capacity → 507
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:    http.StatusUnprocessableEntity,
	domain.KindAuthorization: http.StatusForbidden,
	domain.KindState:         http.StatusConflict,
	domain.KindCapacity:      http.StatusInsufficientStorage,
	domain.KindNotFound:      http.StatusNotFound,
	domain.KindTransfer:      http.StatusPaymentRequired,
}

func statusFor(err error) int {
	if s, ok := kindStatus[domain.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError maps domain errors → HTTP codes; anything unrecognised is logged and hidden.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
		return c.JSON(status, ErrorResponse{Error: "internal error", Code: "internal"})
	}
	var de *domain.Error
	msg := err.Error()
	if errors.As(err, &de) && domain.KindOf(err) != domain.KindTransfer {
		msg = de.Msg
	}
	return c.JSON(status, ErrorResponse{Error: msg, Code: domain.CodeOf(err)})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    "validation_failed",
		Details: ToFieldErrors(err),
	})
}

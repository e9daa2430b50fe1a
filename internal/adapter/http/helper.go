package http

import (
	"errors"
	"net/http"
	"strings"

	"rentdesk-backend/internal/apperrors"

	"github.com/labstack/echo/v4"
)

// respondError maps an application error onto the wire: the apperrors kind
// picks the status, the message goes out as-is.
func respondError(c echo.Context, err error) error {
	msg := err.Error()
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	return c.JSON(apperrors.StatusOf(err), ErrorResponse{Error: msg})
}

func respondInvalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func respondValidation(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
}

// ---- test helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

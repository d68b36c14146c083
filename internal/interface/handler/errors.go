package handler

import (
	"errors"
	"net/http"

	"flightwatch-service/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

func errorBody(code, message string) echo.Map {
	return echo.Map{"error": code, "message": message}
}

// statusFor maps domain errors to an HTTP status and error code
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrEmptySelection):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, entity.ErrBusy), errors.Is(err, entity.ErrStaleResponse):
		return http.StatusConflict, "conflict"
	case errors.Is(err, entity.ErrCollaborator):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError renders err with the user facing message, or fallback
func writeError(c echo.Context, err error, fallback string) error {
	status, code := statusFor(err)
	message := entity.UserMessage(err, fallback)
	if status == http.StatusNotFound || status == http.StatusForbidden || status == http.StatusConflict {
		message = err.Error()
	}
	return c.JSON(status, errorBody(code, message))
}

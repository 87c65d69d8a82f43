package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
	"github.com/liliang-cn/datacron/pkg/schedule"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// httpError maps domain errors to status codes.
func httpError(err error) error {
	var (
		unknown    *cronexpr.UnknownFieldError
		validation *schedule.ValidationError
		invalid    *cronexpr.InvalidExpressionError
	)
	switch {
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error(), Field: validation.Field})
	case errors.As(err, &invalid):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error(), Field: "expression"})
	case errors.As(err, &unknown):
		return echo.NewHTTPError(http.StatusNotFound, ErrorResponse{Message: err.Error(), Field: "field"})
	case errors.Is(err, schedule.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Message: err.Error()}).SetInternal(err)
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Message: msg})
}

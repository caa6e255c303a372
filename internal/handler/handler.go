package handler

import (
	"github.com/labstack/echo/v4"

	"clinicbook/internal/errors"
)

// fail renders a kind-tagged error as the standard error response.
func fail(err error) *echo.HTTPError {
	he := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

func badRequest(message string) *echo.HTTPError {
	return fail(errors.BadRequest(message))
}

package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/pkg/errs"
)

// ErrorResponse is the uniform error body. Code mirrors the per-item result
// codes of batch operations so clients classify failures one way everywhere.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps a use-case error to its HTTP status and error body.
//
// The mapping follows the error taxonomy: authorization failures are 403,
// missing aggregates 404, lost write races and duplicates 409, structural
// defects 400, business-rule rejections 422.
func respondError(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	switch {
	case errors.Is(err, errs.ErrAuthorizationFailed):
		return c.JSON(http.StatusForbidden, ErrorResponse{Code: "authorization_error", Message: err.Error()})
	case errors.Is(err, errs.ErrOwnershipViolation):
		return c.JSON(http.StatusForbidden, ErrorResponse{Code: "ownership_error", Message: err.Error()})
	case errors.Is(err, errs.ErrObjectNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found_error", Message: err.Error()})
	case errors.Is(err, errs.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Code: "conflict_error", Message: err.Error()})
	case errors.Is(err, errs.ErrValueIsRequired):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: err.Error()})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Code: "validation_error", Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "internal_error",
			Message: "internal server error",
		})
	}
}

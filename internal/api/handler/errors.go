package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// Classify maps an error returned by a handler to its HTTP status and error
// body. known is false for errors outside the domain taxonomy; those are
// rendered as a generic 500.
func Classify(err error) (status int, body ErrorBody, known bool) {
	// Echo's own errors (unknown route, method not allowed, body limit, ...)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorBody{Code: statusCode(he.Code), Message: fmt.Sprintf("%v", he.Message)}, true
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorBody{Code: "unauthenticated", Message: "invalid credentials"}, true
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorBody{Code: "unauthenticated", Message: domain.ErrUnauthenticated.Error()}, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorBody{Code: "forbidden", Message: domain.ErrForbidden.Error()}, true
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrorBody{Code: "validation_error", Message: err.Error()}, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Code: "not_found", Message: err.Error()}, true
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrorBody{Code: "conflict", Message: err.Error()}, true
	}
	return http.StatusInternalServerError, ErrorBody{Code: "internal_error", Message: "internal server error"}, false
}

// statusCode turns an HTTP status into a snake_case error code, e.g.
// 405 → "method_not_allowed".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(strings.ToLower(text))
}

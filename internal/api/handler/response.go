package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataEnvelope wraps every successful response body.
type DataEnvelope struct {
	Data any `json:"data"`
}

// ErrorBody is the machine readable code plus a human readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps every error response body.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, DataEnvelope{Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, DataEnvelope{Data: data})
}

package handler

import (
	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope used by every endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, APIResponse{Success: true, Data: data})
}

// Fail renders a failed envelope with the given status.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, APIResponse{Success: false, Error: msg})
}

package handlers

import (
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError writes an ErrorResponse with status.
func JSONError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

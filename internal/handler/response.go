package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/localfinds/internal/middleware"
)

// Envelope is the JSON body shared by the directory endpoints.
type Envelope struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Meta      *Meta  `json:"meta,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Meta describes a collection payload.
type Meta struct {
	Count int `json:"count"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, Envelope{
		Status:    "success",
		Message:   message,
		Data:      data,
		RequestID: middleware.RequestIDFromContext(c),
	})
}

// Collection sends a 200 collection response carrying the item count in meta.
func Collection(c echo.Context, message string, data any, count int) error {
	return c.JSON(http.StatusOK, Envelope{
		Status:    "success",
		Message:   message,
		Data:      data,
		Meta:      &Meta{Count: count},
		RequestID: middleware.RequestIDFromContext(c),
	})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, Envelope{
		Status:    "error",
		Message:   message,
		RequestID: middleware.RequestIDFromContext(c),
	})
}

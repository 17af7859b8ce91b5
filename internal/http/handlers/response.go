// Package handlers provides the Gin handlers of the ERP API.
//
// This file defines the response helpers shared by every endpoint. Errors
// are always written as an ErrorResponse with a stable `code`; 5xx errors
// are logged with the request-scoped logger.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "employee not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-erp-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message
	Message string `json:"message" example:"employee not found"`
}

// MessageResponse is the body of delete endpoints.
type MessageResponse struct {
	Message string `json:"message" example:"Deleted successfully"`
}

// StatusRequest is the body of status update endpoints.
type StatusRequest struct {
	Status string `json:"status" example:"Approved"`
}

// StatusResponse echoes the updated status.
type StatusResponse struct {
	ID     string `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Status string `json:"status" example:"Approved"`
}

// fail aborts the request with a structured error. Server errors (>=500)
// are logged.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail, used by the router for NoRoute and
// NoMethod.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr writes the envelope matching a service error.
func failErr(c *gin.Context, entity string, err error) {
	status, code, msg := classify(entity, err)
	fail(c, status, code, msg)
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func deleted(c *gin.Context) {
	ok(c, http.StatusOK, MessageResponse{Message: "Deleted successfully"})
}

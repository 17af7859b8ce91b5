// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and mirror HTTP status semantics. Clients
// branch on the code; the message is for humans and, for storage failures,
// carries the raw driver error.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "conflict",
//	  "message": "conflict: UNIQUE constraint failed: products.sku"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// classify maps a service error onto (status, code, message). entity names
// the resource for not-found messages.
func classify(entity string, err error) (int, string, string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrCodeBadRequest, ve.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, entity + " not found"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password"
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrConflict):
		return http.StatusConflict, ErrCodeConflict, err.Error()
	}
	return http.StatusInternalServerError, ErrCodeInternal, err.Error()
}

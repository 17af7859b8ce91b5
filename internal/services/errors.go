// Package services defines the business logic of the ERP modules (HR,
// finance, inventory, CRM, purchasing, system and auth). This file
// centralizes the service-level error values so that they can be returned
// consistently by service methods and checked by callers.
//
// Translation into HTTP status codes is done at the handler layer. Field
// level rejections are reported as *domain.ValidationError.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"
)

var (
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a unique or foreign key
	// constraint. The driver message is wrapped after it.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned by Register when the email already has an
	// account.
	ErrEmailTaken = errors.New("email already registered")
)

// translate maps repository and driver errors onto service errors. Storage
// failures that match nothing are returned unchanged.
func translate(err error) error {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrDuplicate), errors.Is(err, repo.ErrConstraint):
		return fmt.Errorf("%w: %s", ErrConflict, err.Error())
	}
	return err
}

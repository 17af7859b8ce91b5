package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique constraint violation.
var ErrDuplicate = errors.New("duplicate")

// ErrConstraint indicates a foreign key violation.
var ErrConstraint = errors.New("constraint violation")

// driverError keeps the driver's message while matching a repo sentinel.
type driverError struct {
	kind error
	err  error
}

func (e *driverError) Error() string        { return e.err.Error() }
func (e *driverError) Is(target error) bool { return target == e.kind }
func (e *driverError) Unwrap() error        { return e.err }

// Classify maps driver errors onto ErrDuplicate and ErrConstraint. Other
// errors are returned unchanged. glebarez/sqlite often returns plain-text
// errors, so the message is inspected when gorm could not translate it.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	low := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(low, "unique constraint failed"),
		strings.Contains(low, "constraint failed: unique"),
		strings.Contains(low, "duplicate key"):
		return &driverError{kind: ErrDuplicate, err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(low, "foreign key constraint"),
		strings.Contains(low, "violates foreign key"):
		return &driverError{kind: ErrConstraint, err: err}
	}
	return err
}

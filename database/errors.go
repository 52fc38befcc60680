package database

import (
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/healthymeal/backend/errors"
)

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// IsBusyError checks for SQLite lock contention that may clear on retry.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked") ||
		strings.Contains(errStr, "busy")
}

// FromDatabase converts a database error to an AppError.
func FromDatabase(err error, resource string) *errors.AppError {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound(resource, "")
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Conflict("A " + resource + " with these details already exists.").WithCause(err)
	}
	return errors.DatabaseError(err)
}

package database

import (
	stderrors "errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/healthymeal/backend/errors"
)

func TestIsNotFoundError(t *testing.T) {
	if !IsNotFoundError(gorm.ErrRecordNotFound) {
		t.Error("expected true for ErrRecordNotFound")
	}
	wrapped := fmt.Errorf("loading recipe: %w", gorm.ErrRecordNotFound)
	if !IsNotFoundError(wrapped) {
		t.Error("expected true for wrapped ErrRecordNotFound")
	}
	if IsNotFoundError(stderrors.New("other")) {
		t.Error("expected false for unrelated error")
	}
}

func TestIsBusyError(t *testing.T) {
	if !IsBusyError(stderrors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Error("expected true for locked database")
	}
	if IsBusyError(nil) {
		t.Error("expected false for nil")
	}
	if IsBusyError(stderrors.New("syntax error")) {
		t.Error("expected false for syntax error")
	}
}

func TestFromDatabase(t *testing.T) {
	if FromDatabase(nil, "recipe") != nil {
		t.Error("expected nil for nil error")
	}

	appErr := FromDatabase(gorm.ErrRecordNotFound, "recipe")
	if appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}

	appErr = FromDatabase(gorm.ErrDuplicatedKey, "adjustment job")
	if appErr.Code != errors.ErrCodeConflict {
		t.Errorf("expected CONFLICT, got %s", appErr.Code)
	}

	appErr = FromDatabase(stderrors.New("disk I/O error"), "recipe")
	if appErr.Code != errors.ErrCodeDatabaseError {
		t.Errorf("expected DATABASE_ERROR, got %s", appErr.Code)
	}
}

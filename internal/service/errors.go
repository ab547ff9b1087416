package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("validation_failed")
	ErrStoreUnavailable = errors.New("store_unavailable")
	// ErrPartialWrite means the reply row exists but the parent message was
	// not marked replied. ReconcileReplied repairs it.
	ErrPartialWrite     = errors.New("partial_write")
	ErrDraftUnavailable = errors.New("draft_unavailable")
)

func validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr maps a repository error onto the service taxonomy.
func storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

// Scope identifies the caller every service operation acts for.
type Scope struct {
	UserID string
}

func (s Scope) validate() error {
	if s.UserID == "" {
		return ErrForbidden
	}
	return nil
}

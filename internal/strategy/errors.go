package strategy

import (
	"errors"
	"fmt"
)

var (
	ErrForbiddenOperation   = errors.New("forbidden operation")
	ErrUnauthorizedImport   = errors.New("unauthorized import")
	ErrMissingStrategyClass = errors.New("strategy type not found")
	ErrInvalidSource        = errors.New("invalid strategy source")
	ErrNoStrategyFile       = errors.New("no strategy file found")
)

// ViolationError describes why a strategy file was rejected.
type ViolationError struct {
	Kind   error  // one of the sentinel errors above
	File   string
	Module string // offending import path, if any
	Detail string
}

func (e *ViolationError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("%v %q found in %s: %s", e.Kind, e.Module, e.File, e.Detail)
	}
	return fmt.Sprintf("%v in %s: %s", e.Kind, e.File, e.Detail)
}

func (e *ViolationError) Unwrap() error { return e.Kind }

// IsViolation reports whether err rejects the strategy file itself, as opposed to a
// failure while running it.
func IsViolation(err error) bool {
	for _, kind := range []error{ErrForbiddenOperation, ErrUnauthorizedImport, ErrMissingStrategyClass, ErrInvalidSource} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

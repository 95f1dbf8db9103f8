package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid range")

	// ErrConflict marks lifecycle calls made in the wrong state.
	ErrConflict            = errors.New("conflict")
	ErrNoActiveSession     = fmt.Errorf("%w: no active session", ErrConflict)
	ErrActiveSessionExists = fmt.Errorf("%w: active session already exists", ErrConflict)
)

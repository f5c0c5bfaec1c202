package models

import "errors"

// Error kinds shared by every layer. Callers wrap them with context using
// github.com/pkg/errors and test them with errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrIncompatibleOption  = errors.New("incompatible option")
	ErrInvalidState        = errors.New("invalid state")
	ErrIllegalTransition   = errors.New("illegal transition")
	ErrReferentialConflict = errors.New("referential conflict")
	ErrConflict            = errors.New("stale revision")
	ErrTimeout             = errors.New("timeout")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

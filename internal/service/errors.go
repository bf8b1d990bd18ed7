package service

import "errors"

// Error kinds surfaced to callers. Wrapped errors keep the underlying cause,
// so errors.As still reaches e.g. utils.ValidationErrors.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

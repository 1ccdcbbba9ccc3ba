package loan

import "errors"

var (
	ErrNotFound         = errors.New("loan not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidOperation = errors.New("invalid operation for current loan status")
	ErrConflict         = errors.New("listing already has an open loan")
)

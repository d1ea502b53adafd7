package marketerrors

import "errors"

// Repository-level errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidID       = errors.New("invalid document id")
)

// business logic errors
var (
	ErrInvalidUser = errors.New("invalid user record")
)

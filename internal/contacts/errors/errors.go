package errors

import "errors"

var (
	ErrNotFound = errors.New("contact not found")

	ErrInvalidID = errors.New("invalid contact ID format")
)

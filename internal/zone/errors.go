package zone

import "errors"

var (
	// ErrInvalidInput is returned for an empty zone name or a malformed camera index.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a zone id is unknown.
	ErrNotFound = errors.New("zone not found")
	// ErrNotEmpty is returned when removing a zone that still holds cameras.
	ErrNotEmpty = errors.New("zone is not empty")
)

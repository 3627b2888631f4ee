package record

import "errors"

var (
	// ErrInvalidFields indicates a stored field payload could not be decoded.
	ErrInvalidFields = errors.New("invalid record fields")
)

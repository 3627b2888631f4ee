package repository

import "errors"

var (
	// ErrNotFound is returned when a requested document doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a collection or field name is unusable
	ErrInvalidInput = errors.New("invalid input")

	// ErrClosed is returned when the store has been closed
	ErrClosed = errors.New("document store closed")
)

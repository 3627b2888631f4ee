package employee

import "errors"

var (
	// ErrEmployeeNotFound indicates the employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrInvalidInput indicates invalid employee input.
	ErrInvalidInput = errors.New("invalid employee input")
)

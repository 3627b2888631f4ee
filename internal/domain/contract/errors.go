package contract

import "errors"

var (
	// ErrContractNotFound indicates the contract doesn't exist.
	ErrContractNotFound = errors.New("contract not found")
	// ErrInvalidInput indicates invalid contract input.
	ErrInvalidInput = errors.New("invalid contract input")
)

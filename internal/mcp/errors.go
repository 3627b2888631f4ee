package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/recordstore"
	"github.com/rpggio/workboard/internal/repository"
	"github.com/rpggio/workboard/internal/workspace"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "List projects to find a valid id"}
	case errors.Is(err, contract.ErrContractNotFound):
		return &APIError{Code: "CONTRACT_NOT_FOUND", Message: "contract not found", RecoveryHint: "List contracts to find a valid id"}
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return &APIError{Code: "EMPLOYEE_NOT_FOUND", Message: "employee not found", RecoveryHint: "List employees to find a valid id"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", Message: "record not found", RecoveryHint: "Check the id and collection"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, contract.ErrInvalidInput),
		errors.Is(err, employee.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Fix the listed fields and retry"}
	case errors.Is(err, workspace.ErrUnknownCollection):
		return &APIError{Code: "UNKNOWN_COLLECTION", Message: err.Error(), RecoveryHint: "Use projects, contracts or employees"}
	case errors.Is(err, project.ErrNoResolver):
		return &APIError{Code: "UNAVAILABLE", Message: "member resolution is not configured"}
	case errors.Is(err, recordstore.ErrClosed), errors.Is(err, repository.ErrClosed):
		return &APIError{Code: "UNAVAILABLE", Message: "store closed", RecoveryHint: "Reconnect"}
	default:
		return nil
	}
}

// toolError returns the coded form of err when one exists.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func invalidInput(format string, args ...any) *APIError {
	return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...), RecoveryHint: "Fix the listed fields and retry"}
}

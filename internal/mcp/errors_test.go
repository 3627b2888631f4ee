package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/repository"
	"github.com/rpggio/workboard/internal/workspace"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("getting: %w", project.ErrProjectNotFound), "PROJECT_NOT_FOUND"},
		{contract.ErrContractNotFound, "CONTRACT_NOT_FOUND"},
		{employee.ErrEmployeeNotFound, "EMPLOYEE_NOT_FOUND"},
		{repository.ErrNotFound, "RECORD_NOT_FOUND"},
		{fmt.Errorf("%w: name (tag=notblank)", project.ErrInvalidInput), "INVALID_INPUT"},
		{fmt.Errorf("%w: %q", workspace.ErrUnknownCollection, "x"), "UNKNOWN_COLLECTION"},
		{repository.ErrClosed, "UNAVAILABLE"},
	}
	for _, tc := range cases {
		apiErr := MapError(tc.err)
		require.NotNil(t, apiErr, tc.err)
		require.Equal(t, tc.code, apiErr.Code)
	}

	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("boom")))
}

func TestToolError_KeepsUnmapped(t *testing.T) {
	boom := errors.New("boom")
	require.Same(t, boom, toolError(boom))

	var apiErr *APIError
	require.ErrorAs(t, toolError(employee.ErrEmployeeNotFound), &apiErr)
	require.Equal(t, "EMPLOYEE_NOT_FOUND: employee not found", apiErr.Error())
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("deadline", "2025-09-01")
	require.NoError(t, err)
	require.Equal(t, "2025-09-01T00:00:00Z", got.Format("2006-01-02T15:04:05Z07:00"))

	got, err = parseDate("deadline", " ")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = parseDate("deadline", "soon")
	require.ErrorContains(t, err, "deadline")
}

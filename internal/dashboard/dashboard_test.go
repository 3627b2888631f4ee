package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/memory"
	"github.com/rpggio/workboard/internal/repository/mocks"
	"github.com/rpggio/workboard/internal/seed"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	now := time.Now()
	o := Build(seed.Projects(now), seed.Contracts(now), seed.Employees(now))

	require.Equal(t, 5, o.Projects)
	require.Equal(t, 3, o.Contracts)
	require.Equal(t, 4, o.Employees)
	require.Equal(t, 2, o.InProgressProjects)
	require.Equal(t, 1, o.ProjectStatus.Count("Tạm dừng"))
	require.Equal(t, 2, o.EmployeeRoles.Count("Nhân viên"))
	require.Equal(t, 570_000_000.0, o.ContractValue["VNĐ"])
	require.Equal(t, 25_000.0, o.ContractValue["USD"])

	sum := 0
	for _, n := range o.ContractStatus.Counts {
		sum += n
	}
	require.Equal(t, o.Contracts, sum)
}

func TestBuild_Empty(t *testing.T) {
	o := Build(nil, nil, nil)
	require.Zero(t, o.Projects)
	require.Zero(t, o.ProjectStatus.Total)
	require.Empty(t, o.ContractValue)
}

func TestService_Overview(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	defer docs.Close()
	require.NoError(t, seed.Apply(ctx, docs, time.Now()))

	o, err := NewService(docs, nil).Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, o.Projects)
	require.Equal(t, 4, o.Employees)

	_, err = docs.Create(ctx, "employees", map[string]any{"role": "Thực tập"})
	require.NoError(t, err)
	o, err = NewService(docs, nil).Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, o.Employees)
	require.Equal(t, 2, o.EmployeeRoles.Count("Thực tập"))
}

func TestService_OverviewError(t *testing.T) {
	boom := errors.New("offline")
	docs := &mocks.DocumentStore{}
	docs.On("FetchAll", mock.Anything, "projects").Return([]record.Record{}, nil)
	docs.On("FetchAll", mock.Anything, "contracts").Return(nil, boom)
	docs.On("FetchAll", mock.Anything, "employees").Return([]record.Record{}, nil)

	_, err := NewService(docs, nil).Overview(context.Background())
	require.ErrorIs(t, err, boom)
}

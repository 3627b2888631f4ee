package project_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/memory"
	"github.com/rpggio/workboard/internal/relation"
	"github.com/rpggio/workboard/internal/repository"
	"github.com/rpggio/workboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	docs := &mocks.DocumentStore{}
	docs.On("Create", ctx, "projects", mock.MatchedBy(func(fields map[string]any) bool {
		return fields["name"] == "Website Tuyển sinh" &&
			fields["status"] == "Chờ xử lý" &&
			fields["progress"] == float64(0) &&
			len(fields["members"].([]string)) == 1
	})).Return("p1", nil)

	activityRepo := &mocks.ActivityRepository{}
	activityRepo.On("Log", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Collection == "projects" && e.RecordID == "p1" && e.Type == activity.TypeCreated
	})).Return(nil)

	svc := project.NewService(docs, nil, activity.NewService(activityRepo, nil), nil)
	proj, err := svc.Create(ctx, project.CreateRequest{
		Name:    "  Website Tuyển sinh ",
		Client:  "Trường Đại học A",
		Members: []string{"a@x.com", "  "},
	})
	require.NoError(t, err)
	require.Equal(t, "p1", proj.ID)
	require.Equal(t, project.StatusPending, proj.Status)
	require.Equal(t, []string{"a@x.com"}, proj.Members)
	docs.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	docs := &mocks.DocumentStore{}
	svc := project.NewService(docs, nil, nil, nil)

	_, err := svc.Create(ctx, project.CreateRequest{Name: "", Client: "A"})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.Contains(t, err.Error(), "name")

	_, err = svc.Create(ctx, project.CreateRequest{Name: "X", Client: "   "})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.Contains(t, err.Error(), "client")
	docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	docs := &mocks.DocumentStore{}
	docs.On("Get", ctx, "projects", "missing").Return(record.Record{}, repository.ErrNotFound)

	svc := project.NewService(docs, nil, nil, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_GetPropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("unavailable")
	docs := &mocks.DocumentStore{}
	docs.On("Get", ctx, "projects", "p1").Return(record.Record{}, boom)

	svc := project.NewService(docs, nil, nil, nil)
	_, err := svc.Get(ctx, "p1")
	require.ErrorIs(t, err, boom)
}

func TestProjectService_FromLegacyRecord(t *testing.T) {
	deadline := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	proj := project.FromRecord(record.New(record.KindProject, "p1", map[string]any{
		"name":     "CRM",
		"status":   "Tạm dừng",
		"progress": "65",
		"deadline": deadline,
		"members":  []any{"a@x.com", "b@x.com"},
	}))
	require.Equal(t, 65.0, proj.Progress)
	require.Equal(t, project.StatusPaused, proj.Status)
	require.Equal(t, []string{"a@x.com", "b@x.com"}, proj.Members)
	require.True(t, proj.Overdue(deadline.Add(time.Hour)))
	require.False(t, proj.Overdue(deadline.Add(-time.Hour)))

	empty := project.FromRecord(record.Record{ID: "p2"})
	require.NotNil(t, empty.Members)
	require.Nil(t, empty.Deadline)
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	defer docs.Close()
	svc := project.NewService(docs, nil, nil, nil)

	proj, err := svc.Create(ctx, project.CreateRequest{Name: "App điểm danh", Client: "Công ty B"})
	require.NoError(t, err)

	status := project.StatusInProgress
	progress := 45.0
	updated, err := svc.Update(ctx, proj.ID, project.UpdateRequest{Status: &status, Progress: &progress})
	require.NoError(t, err)
	require.Equal(t, project.StatusInProgress, updated.Status)

	got, err := svc.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, 45.0, got.Progress)
	require.Equal(t, "App điểm danh", got.Name)

	tooMuch := 120.0
	_, err = svc.Update(ctx, proj.ID, project.UpdateRequest{Progress: &tooMuch})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	bogus := project.Status("Đang chờ")
	_, err = svc.Update(ctx, proj.ID, project.UpdateRequest{Status: &bogus})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, proj.ID))
	require.ErrorIs(t, svc.Delete(ctx, proj.ID), project.ErrProjectNotFound)
	_, err = svc.Update(ctx, proj.ID, project.UpdateRequest{Status: &status})
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_Members(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	defer docs.Close()
	require.NoError(t, docs.Seed(ctx, "employees",
		record.New(record.KindEmployee, "e1", map[string]any{"email": "a@x.com", "name": "An"}),
	))

	svc := project.NewService(docs, relation.NewResolver(docs), nil, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{
		Name:    "Website",
		Client:  "C",
		Members: []string{"a@x.com", "b@x.com"},
	})
	require.NoError(t, err)

	members, err := svc.Members(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "An", members[0].Name)
	require.True(t, members[1].Placeholder)
	require.Equal(t, "b", members[1].Name)

	_, err = project.NewService(docs, nil, nil, nil).Members(ctx, proj.ID)
	require.ErrorIs(t, err, project.ErrNoResolver)
}

func TestProjectService_UpdateKeepsLegacyStatus(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	defer docs.Close()
	require.NoError(t, docs.Seed(ctx, "projects",
		record.New(record.KindProject, "p1", map[string]any{
			"name": "Legacy", "client": "C", "status": "Đang làm", "progress": "40",
		}),
		record.New(record.KindProject, "p2", map[string]any{"name": "Blank"}),
	))
	svc := project.NewService(docs, nil, nil, nil)

	progress := 50.0
	updated, err := svc.Update(ctx, "p1", project.UpdateRequest{Progress: &progress})
	require.NoError(t, err)
	require.Equal(t, project.Status("Đang làm"), updated.Status)
	require.Equal(t, 50.0, updated.Progress)

	name := "Renamed"
	_, err = svc.Update(ctx, "p2", project.UpdateRequest{Name: &name})
	require.NoError(t, err)

	blank := " "
	_, err = svc.Update(ctx, "p2", project.UpdateRequest{Client: &blank})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.Contains(t, err.Error(), "client")
}

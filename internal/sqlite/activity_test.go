package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.Entry{
		Collection: "projects",
		RecordID:   "p1",
		Type:       activity.TypeCreated,
		Summary:    "Created project Website",
		Details:    `{"id":"p1"}`,
	}
	entry2 := &activity.Entry{
		Collection: "projects",
		RecordID:   "p1",
		Type:       activity.TypeUpdated,
		Summary:    "Updated project Website",
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)
	require.False(t, entry1.CreatedAt.IsZero())

	entries, err := repo.List(ctx, activity.ListOptions{Collection: "projects"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeUpdated, entries[0].Type)
	require.Equal(t, activity.TypeCreated, entries[1].Type)
	require.Equal(t, `{"id":"p1"}`, entries[1].Details)
	require.Empty(t, entries[0].Details)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	for _, entry := range []*activity.Entry{
		{Collection: "projects", RecordID: "p1", Type: activity.TypeCreated, Summary: "a"},
		{Collection: "contracts", RecordID: "c1", Type: activity.TypeCreated, Summary: "b"},
		{Collection: "contracts", RecordID: "c1", Type: activity.TypeDeleted, Summary: "c"},
	} {
		require.NoError(t, repo.Log(ctx, entry))
	}

	recordID := "c1"
	deleted := activity.TypeDeleted
	entries, err := repo.List(ctx, activity.ListOptions{Collection: "contracts", RecordID: &recordID, Type: &deleted})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "c", entries[0].Summary)

	entries, err = repo.List(ctx, activity.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, activity.ListOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListOptions{Collection: "employees"})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestActivityRepository_RejectsUnknownType(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	err := repo.Log(context.Background(), &activity.Entry{Collection: "projects", RecordID: "p1", Type: "moved", Summary: "x"})
	require.Error(t, err)
}

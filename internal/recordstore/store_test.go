package recordstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/memory"
	"github.com/rpggio/workboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func project(id, name, status string) record.Record {
	return record.New(record.KindProject, id, map[string]any{"name": name, "status": status})
}

func ids(records []record.Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ID)
	}
	return out
}

func TestUpsert_ExactlyOneWithID(t *testing.T) {
	s := New(record.KindProject)
	s.Upsert(project("1", "Website", "Chờ xử lý"))
	s.Upsert(project("2", "App", "Chờ xử lý"))
	s.Upsert(project("1", "Website v2", "Đang thực hiện"))

	all := s.All()
	require.Equal(t, []string{"1", "2"}, ids(all))
	require.Equal(t, project("1", "Website v2", "Đang thực hiện"), all[0])

	got, ok := s.Get("1")
	require.True(t, ok)
	require.Equal(t, "Website v2", got.Text("name"))
}

func TestRemove(t *testing.T) {
	s := New(record.KindProject)
	s.ReplaceAll([]record.Record{project("1", "a", ""), project("2", "b", ""), project("3", "c", "")})

	s.Remove("2")
	s.Remove("missing")
	require.Equal(t, []string{"1", "3"}, ids(s.All()))

	_, ok := s.Get("2")
	require.False(t, ok)
	got, ok := s.Get("3")
	require.True(t, ok)
	require.Equal(t, "c", got.Text("name"))
	require.Equal(t, 2, s.Len())
}

func TestReplaceAll_Idempotent(t *testing.T) {
	input := []record.Record{project("1", "a", ""), project("2", "b", ""), project("1", "c", "")}
	s := New(record.KindProject)

	s.ReplaceAll(input)
	first := s.All()
	s.ReplaceAll(input)
	second := s.All()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("replaceAll not idempotent (-first +second):\n%s", diff)
	}
}

func TestReplaceAll_DuplicateKeepsLast(t *testing.T) {
	s := New(record.KindProject)
	s.ReplaceAll([]record.Record{
		project("1", "first", "Chờ xử lý"),
		project("2", "other", "Chờ xử lý"),
		project("1", "duplicate", "Đã hủy"),
	})

	all := s.All()
	require.Equal(t, []string{"1", "2"}, ids(all))
	require.Equal(t, "duplicate", all[0].Text("name"))
	require.Equal(t, "Đã hủy", all[0].Text("status"))
}

func TestReplaceAll_CallerMutationDoesNotLeak(t *testing.T) {
	rec := record.New(record.KindProject, "1", map[string]any{"members": []string{"a@x.com"}})
	s := New(record.KindProject)
	s.ReplaceAll([]record.Record{rec})

	rec.Fields["members"].([]string)[0] = "changed@x.com"
	rec.Fields["name"] = "changed"

	got, _ := s.Get("1")
	require.Equal(t, []string{"a@x.com"}, got.Strings("members"))
	require.Empty(t, got.Text("name"))
}

func TestFindFirst(t *testing.T) {
	s := New(record.KindEmployee)
	s.ReplaceAll([]record.Record{
		record.New(record.KindEmployee, "1", map[string]any{"email": "a@x.com", "name": "An"}),
		record.New(record.KindEmployee, "2", map[string]any{"email": "a@x.com", "name": "An 2"}),
	})

	got, ok := s.FindFirst("email", "a@x.com")
	require.True(t, ok)
	require.Equal(t, "1", got.ID)

	_, ok = s.FindFirst("email", "A@x.com")
	require.False(t, ok)
}

func TestFindFirst_RequiresField(t *testing.T) {
	s := New(record.KindEmployee)
	s.ReplaceAll([]record.Record{
		record.New(record.KindEmployee, "1", map[string]any{"name": "An"}),
		record.New(record.KindEmployee, "2", map[string]any{"email": ""}),
	})
	got, ok := s.FindFirst("email", "")
	require.True(t, ok)
	require.Equal(t, "2", got.ID)

	_, ok = s.FindFirst("position", "")
	require.False(t, ok)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	docs := new(mocks.DocumentStore)
	docs.On("FetchAll", ctx, "projects").Return([]record.Record{project("1", "a", "")}, nil).Once()

	s := New(record.KindProject, WithSource(docs))
	require.NoError(t, s.Refresh(ctx))
	require.Equal(t, []string{"1"}, ids(s.All()))
	docs.AssertExpectations(t)
}

func TestRefresh_ErrorKeepsContents(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("network down")
	docs := new(mocks.DocumentStore)
	docs.On("FetchAll", ctx, "projects").Return(nil, boom).Once()

	s := New(record.KindProject, WithSource(docs))
	s.Upsert(project("1", "kept", ""))

	err := s.Refresh(ctx)
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"1"}, ids(s.All()))
}

func TestRefresh_NoSource(t *testing.T) {
	s := New(record.KindProject)
	require.ErrorIs(t, s.Refresh(context.Background()), ErrNoSource)
	_, err := s.Watch(context.Background())
	require.ErrorIs(t, err, ErrNoSource)
}

func TestWatch_AppliesSnapshots(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	defer docs.Close()
	require.NoError(t, docs.Seed(context.Background(), "projects", project("1", "seeded", "")))

	s := New(record.KindProject, WithSource(docs))
	defer s.Close()
	stop, err := s.Watch(ctx)
	require.NoError(t, err)
	defer stop()

	require.Eventually(t, func() bool { return s.Len() == 1 }, time.Second, 5*time.Millisecond)

	_, err = docs.Create(ctx, "projects", map[string]any{"name": "created"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.Len() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWatch_SubscribeError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("permission denied")
	docs := new(mocks.DocumentStore)
	docs.On("Subscribe", ctx, "contracts", mock.Anything).Return(nil, boom)

	s := New(record.KindContract, WithSource(docs))
	_, err := s.Watch(ctx)
	require.ErrorIs(t, err, boom)
}

func TestClose_DropsLateMutations(t *testing.T) {
	ctx := context.Background()
	stopped := 0
	docs := new(mocks.DocumentStore)
	docs.On("Subscribe", ctx, "projects", mock.Anything).Return(func() { stopped++ }, nil)

	s := New(record.KindProject, WithSource(docs))
	s.Upsert(project("1", "a", ""))
	_, err := s.Watch(ctx)
	require.NoError(t, err)

	s.Close()
	s.Close()
	require.False(t, s.Alive())
	require.Equal(t, 1, stopped)

	s.Upsert(project("2", "late", ""))
	s.ReplaceAll(nil)
	s.Remove("1")
	require.Equal(t, []string{"1"}, ids(s.All()))

	require.ErrorIs(t, s.Refresh(ctx), ErrClosed)
	_, err = s.Watch(ctx)
	require.ErrorIs(t, err, ErrClosed)
}

package mocks

import (
	"context"

	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/stretchr/testify/mock"
)

// DocumentStore is a mock for repository.DocumentStore.
type DocumentStore struct {
	mock.Mock
}

func (m *DocumentStore) FetchAll(ctx context.Context, collection string) ([]record.Record, error) {
	args := m.Called(ctx, collection)
	if list, ok := args.Get(0).([]record.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStore) Subscribe(ctx context.Context, collection string, onChange func([]record.Record)) (func(), error) {
	args := m.Called(ctx, collection, onChange)
	if fn, ok := args.Get(0).(func()); ok {
		return fn, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	args := m.Called(ctx, collection, fields)
	return args.String(0), args.Error(1)
}

func (m *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *DocumentStore) Get(ctx context.Context, collection, id string) (record.Record, error) {
	args := m.Called(ctx, collection, id)
	if rec, ok := args.Get(0).(record.Record); ok {
		return rec, args.Error(1)
	}
	return record.Record{}, args.Error(1)
}

func (m *DocumentStore) FindByField(ctx context.Context, collection, field, value string) ([]record.Record, error) {
	args := m.Called(ctx, collection, field, value)
	if list, ok := args.Get(0).([]record.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

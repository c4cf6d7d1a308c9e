package mocks

import (
	"context"

	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/stretchr/testify/mock"
)

// SessionRepository is a mock for session.Repository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) LoadSnapshot(ctx context.Context) (*session.Snapshot, error) {
	args := m.Called(ctx)
	if snap, ok := args.Get(0).(*session.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) SaveSnapshot(ctx context.Context, snap *session.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *SessionRepository) ClearSnapshot(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *SessionRepository) GetSelection(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *SessionRepository) SetSelection(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *SessionRepository) DeleteSelection(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *SessionRepository) ClearSelections(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, workspaceID string, entry *activity.Entry) error {
	args := m.Called(ctx, workspaceID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, workspaceID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, workspaceID, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

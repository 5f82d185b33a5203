package mocks

import (
	"context"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetDefault(ctx context.Context) (*project.Project, error) {
	args := m.Called(ctx)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) UpsertFile(ctx context.Context, projectID string, file project.File) error {
	args := m.Called(ctx, projectID, file)
	return args.Error(0)
}

// ChatRepository is a mock for chat.Repository.
type ChatRepository struct {
	mock.Mock
}

func (m *ChatRepository) Append(ctx context.Context, msg *chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *ChatRepository) List(ctx context.Context, projectID string) ([]chat.Message, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]chat.Message); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepository) GetState(ctx context.Context, projectID string) (*chat.State, error) {
	args := m.Called(ctx, projectID)
	if state, ok := args.Get(0).(*chat.State); ok {
		return state, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepository) SaveState(ctx context.Context, projectID string, state chat.State) error {
	args := m.Called(ctx, projectID, state)
	return args.Error(0)
}

// SettingsRepository is a mock for settings.Repository.
type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) Get(ctx context.Context) (*settings.SystemConfig, error) {
	args := m.Called(ctx)
	if cfg, ok := args.Get(0).(*settings.SystemConfig); ok {
		return cfg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SettingsRepository) Save(ctx context.Context, cfg settings.SystemConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
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

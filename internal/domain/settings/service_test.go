package settings_test

import (
	"context"
	"testing"

	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/repository"
	"github.com/rpggio/trinity/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_GetFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SettingsRepository{}
	repo.On("Get", ctx).Return((*settings.SystemConfig)(nil), repository.ErrNotFound)

	svc := settings.NewService(repo, settings.SystemConfig{CoderModel: "custom-coder"}, nil)
	cfg, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "custom-coder", cfg.CoderModel)
	require.Equal(t, settings.Defaults().ConductorModel, cfg.ConductorModel)
}

func TestSettingsService_UpdateValidates(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(&mocks.SettingsRepository{}, settings.SystemConfig{}, nil)

	_, err := svc.Update(ctx, settings.SystemConfig{ConductorModel: "a", ResearchModel: "b", CoderModel: " ", ValidatorModel: "d"})
	require.ErrorIs(t, err, settings.ErrInvalidInput)
}

func TestSettingsService_UpdateTrimsAndSaves(t *testing.T) {
	ctx := context.Background()
	want := settings.SystemConfig{ConductorModel: "a", ResearchModel: "b", CoderModel: "c", ValidatorModel: "d", SearchEngineID: "cx"}
	repo := &mocks.SettingsRepository{}
	repo.On("Save", ctx, want).Return(nil)

	svc := settings.NewService(repo, settings.SystemConfig{}, nil)
	got, err := svc.Update(ctx, settings.SystemConfig{ConductorModel: " a", ResearchModel: "b ", CoderModel: "c", ValidatorModel: "d", SearchEngineID: " cx "})
	require.NoError(t, err)
	require.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestParseMode(t *testing.T) {
	mode, err := settings.ParseMode("")
	require.NoError(t, err)
	require.Equal(t, settings.ModeFast, mode)

	mode, err = settings.ParseMode("precision")
	require.NoError(t, err)
	require.Equal(t, settings.ModePrecision, mode)

	_, err = settings.ParseMode("turbo")
	require.ErrorIs(t, err, settings.ErrInvalidMode)
}

package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/trinity/internal/domain/settings"
	"github.com/rpggio/trinity/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_SaveGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	cfg := settings.SystemConfig{ConductorModel: "a", ResearchModel: "b", CoderModel: "c", ValidatorModel: "d"}
	require.NoError(t, repo.Save(ctx, cfg))
	cfg.SearchEngineID = "cx-1"
	require.NoError(t, repo.Save(ctx, cfg))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, cfg, *got)
}

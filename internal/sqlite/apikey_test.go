package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/trinity/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_Resolve(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "secret", "client1", "ci"))
	require.ErrorIs(t, repo.Add(ctx, "secret", "client2", ""), repository.ErrDuplicate)

	clientID, err := repo.ResolveClient(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, "client1", clientID)

	_, err = repo.ResolveClient(ctx, "wrong")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NotEqual(t, "secret", HashToken("secret"))
}

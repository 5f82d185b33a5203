package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/trinity/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_AppendListNewestFirst(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	// Equal timestamps must still come back in reverse insertion order.
	for _, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, repo.Append(ctx, &activity.Entry{
			ID:        id,
			ProjectID: "p1",
			Timestamp: 1000,
			Agent:     activity.AgentConductor,
			Severity:  activity.SeverityInfo,
			Message:   "step " + id,
		}))
	}

	entries, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "e3", entries[0].ID)
	require.Equal(t, "e1", entries[2].ID)
	require.Equal(t, "p1", entries[0].ProjectID)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &activity.Entry{ID: "a", ProjectID: "p1", Timestamp: 1, Agent: activity.AgentValidator, Severity: activity.SeveritySuccess, Message: "ok"}))
	require.NoError(t, repo.Append(ctx, &activity.Entry{ID: "b", ProjectID: "p1", Timestamp: 2, Agent: activity.AgentConductor, Severity: activity.SeverityError, Message: "boom"}))
	require.NoError(t, repo.Append(ctx, &activity.Entry{ID: "c", Timestamp: 3, Agent: activity.AgentSystem, Severity: activity.SeverityInfo, Message: "global"}))

	agent := activity.AgentValidator
	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "p1", Agent: &agent})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a", entries[0].ID)

	severity := activity.SeverityError
	entries, err = repo.List(ctx, activity.ListOptions{Severity: &severity})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].ID)

	entries, err = repo.List(ctx, activity.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].ID)

	entries, err = repo.List(ctx, activity.ListOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a", entries[0].ID)
	require.Equal(t, "p1", entries[0].ProjectID)
}

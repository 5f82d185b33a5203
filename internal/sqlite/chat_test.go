package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/trinity/internal/domain/chat"
	"github.com/rpggio/trinity/internal/proposal"
	"github.com/rpggio/trinity/internal/repository"
	"github.com/stretchr/testify/require"
)

func insertMessage(t *testing.T, repo *ChatRepository, projectID, id string) {
	t.Helper()
	require.NoError(t, repo.Append(context.Background(), &chat.Message{
		ID:        id,
		ProjectID: projectID,
		Role:      chat.RoleUser,
		Content:   "message " + id,
	}))
}

func TestChatRepository_AppendListOrder(t *testing.T) {
	db := NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	insertProject(t, db, "p1")

	insertMessage(t, repo, "p1", "m1")
	change := &proposal.Proposal{FileName: "utils.ts", Content: "x", Description: "d"}
	require.NoError(t, repo.Append(ctx, &chat.Message{
		ID:            "m2",
		ProjectID:     "p1",
		Role:          chat.RoleAssistant,
		Content:       "here",
		PendingChange: change,
	}))
	insertMessage(t, repo, "p1", "m3")

	msgs, err := repo.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, []string{"m1", "m2", "m3"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	require.Nil(t, msgs[0].PendingChange)
	require.Equal(t, change, msgs[1].PendingChange)
	require.Equal(t, chat.RoleAssistant, msgs[1].Role)
}

func TestChatRepository_AppendUnknownProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewChatRepository(db)

	err := repo.Append(context.Background(), &chat.Message{ID: "m1", ProjectID: "ghost", Role: chat.RoleUser, Content: "hi"})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestChatRepository_State(t *testing.T) {
	db := NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	insertProject(t, db, "p1")

	_, err := repo.GetState(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	state := chat.State{
		Pending:          &proposal.Proposal{FileName: "a.go", Content: "package a"},
		ValidationReport: "looks fine",
		Sources:          []chat.Source{{Title: "Go", URI: "https://go.dev"}},
	}
	require.NoError(t, repo.SaveState(ctx, "p1", state))

	got, err := repo.GetState(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, state, *got)

	require.NoError(t, repo.SaveState(ctx, "p1", chat.State{}))
	got, err = repo.GetState(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, got.Pending)
	require.Empty(t, got.ValidationReport)
	require.Empty(t, got.Sources)
}

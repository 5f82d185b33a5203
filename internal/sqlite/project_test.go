package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := &project.Project{ID: "p1", Name: "Test Project", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, proj))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", retrieved.ID)
	require.Equal(t, "Test Project", retrieved.Name)
	require.Empty(t, retrieved.Files)
}

func TestProjectRepository_Duplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := &project.Project{ID: "p1", Name: "One", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, proj))
	require.ErrorIs(t, repo.Create(ctx, proj), repository.ErrDuplicate)
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetDefault(context.Background())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_GetDefaultIsOldest(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &project.Project{ID: "old", Name: "Old", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &project.Project{ID: "new", Name: "New", CreatedAt: now}))

	def, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, "old", def.ID)
}

func TestProjectRepository_UpsertFile(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	insertProject(t, db, "p1")

	require.NoError(t, repo.UpsertFile(ctx, "p1", project.NewFile("a.ts", "one")))
	require.NoError(t, repo.UpsertFile(ctx, "p1", project.NewFile("b.ts", "two")))
	require.NoError(t, repo.UpsertFile(ctx, "p1", project.NewFile("a.ts", "three")))

	proj, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, proj.Files, 2)
	require.Equal(t, "a.ts", proj.Files[0].Name)
	require.Equal(t, "three", proj.Files[0].Content)
	require.Equal(t, "typescript", proj.Files[0].Language)
	require.Equal(t, "b.ts", proj.Files[1].Name)
	require.Equal(t, "two", proj.Files[1].Content)
}

func TestProjectRepository_UpsertFileUnknownProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	err := repo.UpsertFile(context.Background(), "ghost", project.NewFile("a.ts", "x"))
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestProjectRepository_ListCounts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	chats := NewChatRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &project.Project{ID: "p1", Name: "First", CreatedAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &project.Project{ID: "p2", Name: "Second", CreatedAt: now}))
	require.NoError(t, repo.UpsertFile(ctx, "p1", project.NewFile("main.go", "package main")))
	insertMessage(t, chats, "p1", "m1")
	insertMessage(t, chats, "p1", "m2")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "p2", list[0].ID)
	require.Equal(t, "p1", list[1].ID)
	require.Equal(t, 1, list[1].FileCount)
	require.Equal(t, 2, list[1].MessageCount)
	require.Equal(t, 0, list[0].FileCount)
}

package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepo_ListByProjectOrdered(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Groups")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))

	repo := NewSQLiteGroupRepo(db)
	require.NoError(t, repo.Create(ctx, testutil.NewTestGroup(proj.ID, "Done", 2)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestGroup(proj.ID, "Todo", 0)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestGroup(proj.ID, "Doing", 1)))

	groups, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Todo", groups[0].Name)
	assert.Equal(t, "Doing", groups[1].Name)
	assert.Equal(t, "Done", groups[2].Name)
}

func TestGroupRepo_GetAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	repo := NewSQLiteGroupRepo(db)

	g, err := repo.GetByID(ctx, b.group.ID)
	require.NoError(t, err)
	assert.Equal(t, b.project.ID, g.ProjectID)

	require.NoError(t, repo.Delete(ctx, b.group.ID))
	_, err = repo.GetByID(ctx, b.group.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

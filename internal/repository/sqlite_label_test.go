package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelRepo_CreateListAndUniqueName(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	repo := NewSQLiteLabelRepo(db)

	require.NoError(t, repo.Create(ctx, testutil.NewTestLabel(b.project.ID, "urgent")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestLabel(b.project.ID, "backend")))
	assert.Error(t, repo.Create(ctx, testutil.NewTestLabel(b.project.ID, "urgent")))

	labels, err := repo.ListByProject(ctx, b.project.ID)
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "backend", labels[0].Name)

	got, err := repo.GetByID(ctx, labels[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "urgent", got.Name)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

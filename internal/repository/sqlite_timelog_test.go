package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeLogRepo_ListAndTotal(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	task := createTask(t, db, b, "Billable")
	repo := NewSQLiteTimeLogRepo(db)

	first := testutil.NewTestTimeLog(task.ID, 30)
	second := testutil.NewTestTimeLog(task.ID, 45)
	second.Note = "pairing"
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	logs, err := repo.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	total, err := repo.TotalMinutesByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, total)

	require.NoError(t, repo.Delete(ctx, first.ID))
	total, err = repo.TotalMinutesByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, total)
}

func TestTimeLogRepo_TotalForTaskWithoutLogs(t *testing.T) {
	db := testutil.NewTestDB(t)
	total, err := NewSQLiteTimeLogRepo(db).TotalMinutesByTask(context.Background(), "none")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

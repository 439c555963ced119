package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/require"
)

// board is a project with one group, the common parent of task fixtures.
type board struct {
	project *domain.Project
	group   *domain.TaskGroup
}

func setupBoard(t *testing.T, conn *sql.DB) board {
	t.Helper()
	ctx := context.Background()
	p := testutil.NewTestProject("Board")
	require.NoError(t, NewSQLiteProjectRepo(conn).Create(ctx, p))
	g := testutil.NewTestGroup(p.ID, "Todo", 0)
	require.NoError(t, NewSQLiteGroupRepo(conn).Create(ctx, g))
	return board{project: p, group: g}
}

func createTask(t *testing.T, conn *sql.DB, b board, name string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(b.project.ID, b.group.ID, name, opts...)
	require.NoError(t, NewSQLiteTaskRepo(conn).Create(context.Background(), task))
	return task
}

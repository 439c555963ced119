package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktree/internal/importer"
	"github.com/alexanderramin/tasktree/internal/testutil"
)

const importFixture = `
project:
  short_id: SHOP01
  name: Shop
groups:
  - ref: todo
    name: Todo
  - ref: done
    name: Done
labels:
  - ref: bug
    name: Bug
tasks:
  - ref: checkout
    name: Checkout
    group_ref: todo
    pricing_type: fixed
    fixed_price: 1250.99
    labels: [bug]
    subscribers: [ana]
    subtasks:
      - ref: cart
        name: Cart
      - ref: pay
        name: Pay
        parent_ref: cart
  - ref: tests
    name: Tests
    parent_ref: checkout
    group_ref: done
`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestImportService_ImportProject(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.imports.ImportProject(ctx, writeFixture(t, importFixture))
	require.NoError(t, err)
	assert.Equal(t, 2, res.GroupCount)
	assert.Equal(t, 1, res.LabelCount)
	assert.Equal(t, 2, res.TaskCount)
	assert.Equal(t, 2, res.SubtaskCount)

	p, err := e.projects.GetByShortID(ctx, "SHOP01")
	require.NoError(t, err)
	tasks, err := e.tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	checkout := tasks[0]
	assert.Equal(t, "Checkout", checkout.Name)
	require.NotNil(t, checkout.FixedPrice)
	assert.Equal(t, int64(1250), *checkout.FixedPrice)
	assert.Len(t, checkout.Labels, 1)
	assert.Equal(t, []string{"ana"}, checkout.SubscribedUsers)

	require.NotNil(t, tasks[1].ParentID)
	assert.Equal(t, checkout.ID, *tasks[1].ParentID)

	subs, err := e.subtasks.ListByTask(ctx, checkout.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.NotNil(t, subs[1].ParentID)
	assert.Equal(t, subs[0].ID, *subs[1].ParentID)
}

func TestImportService_ValidationErrors(t *testing.T) {
	e := newEnv(t)
	schema := &importer.ImportSchema{
		Project: importer.ProjectImport{ShortID: "SHOP01", Name: "Shop"},
		Tasks: []importer.TaskImport{
			{Ref: "a", Name: "A", ParentRef: strPtr("b")},
			{Ref: "a", Name: "B"},
		},
	}
	_, err := e.imports.ImportProjectFromSchema(context.Background(), schema)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), `duplicate ref "a"`)
}

func TestImportService_MissingFile(t *testing.T) {
	e := newEnv(t)
	_, err := e.imports.ImportProject(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")
}

func TestImportService_RollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	injected := errors.New("injected failure")

	// project, 2 groups, label, then the first task insert fails
	e := newEnvWithUoW(database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 5, Err: injected})
	_, err := e.imports.ImportProject(ctx, writeFixture(t, importFixture))
	require.ErrorIs(t, err, injected)

	for _, table := range []string{"projects", "task_groups", "labels", "tasks", "subtasks"} {
		var n int
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}

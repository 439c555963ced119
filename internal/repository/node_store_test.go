package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tasktree/internal/hierarchy"
	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskNodeStore_LookupIgnoresScope(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	parent := createTask(t, db, b, "Parent")
	child := createTask(t, db, b, "Child", testutil.WithParentID(parent.ID))
	store := NewTaskNodeStore(db)

	ref, ok, err := store.Lookup(ctx, "whatever", child.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, ref.ParentID)
	assert.Equal(t, parent.ID, *ref.ParentID)

	_, ok, err = store.Lookup(ctx, "", "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskNodeStore_WithinProjectHidesOtherProjects(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	home := setupBoard(t, db)
	away := setupBoard(t, db)
	local := createTask(t, db, home, "Local")
	foreign := createTask(t, db, away, "Foreign")
	store := NewTaskNodeStore(db).WithinProject(home.project.ID)

	_, ok, err := store.Lookup(ctx, "", local.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = store.Lookup(ctx, "", foreign.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	m := hierarchy.NewMutator(hierarchy.VariantTask, store)
	d, err := m.ProposeParentChange(ctx, hierarchy.Ref{ID: local.ID}, &foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, hierarchy.OutcomeReject, d.Outcome)
	assert.Equal(t, hierarchy.ReasonMissingParent, d.Reason)
}

func TestTaskNodeStore_WriteCoercesAndBumpsUpdatedAt(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	task := createTask(t, db, b, "Write me")
	_, err := db.Exec(`UPDATE tasks SET updated_at = '2000-01-01T00:00:00Z' WHERE id = ?`, task.ID)
	require.NoError(t, err)
	store := NewTaskNodeStore(db)

	err = store.Write(ctx, task.ID, map[string]any{
		"estimation_min": "45",
		"due_on":         "2025-06-01",
		"assigned_to":    "",
		"fixed_price":    int64(999),
	})
	require.NoError(t, err)

	fetched, err := NewSQLiteTaskRepo(db).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, fetched.EstimationMin)
	require.NotNil(t, fetched.DueOn)
	assert.Equal(t, "2025-06-01", fetched.DueOn.Format("2006-01-02"))
	assert.Nil(t, fetched.AssignedTo)
	require.NotNil(t, fetched.FixedPrice)
	assert.Equal(t, int64(999), *fetched.FixedPrice)
	assert.True(t, fetched.UpdatedAt.Year() > 2000, "updated_at is bumped")
}

func TestTaskNodeStore_WriteRejectsUnknownColumns(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	task := createTask(t, db, b, "Guarded")
	store := NewTaskNodeStore(db)

	err := store.Write(ctx, task.ID, map[string]any{"project_id": "elsewhere"})
	assert.ErrorIs(t, err, hierarchy.ErrUnsupportedField)

	err = store.Write(ctx, task.ID, map[string]any{"name; DROP TABLE tasks": "x"})
	assert.ErrorIs(t, err, hierarchy.ErrUnsupportedField)
}

func TestTaskNodeStore_WriteRejectsBadValues(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	task := createTask(t, db, b, "Typed")
	store := NewTaskNodeStore(db)

	assert.ErrorIs(t, store.Write(ctx, task.ID, map[string]any{"estimation_min": "lots"}), hierarchy.ErrInvalidValue)
	assert.ErrorIs(t, store.Write(ctx, task.ID, map[string]any{"due_on": "next tuesday"}), hierarchy.ErrInvalidValue)
	assert.ErrorIs(t, store.Write(ctx, task.ID, map[string]any{"name": nil}), hierarchy.ErrInvalidValue)
}

func TestTaskNodeStore_WriteMissingRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	err := NewTaskNodeStore(db).Write(context.Background(), "ghost", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskNodeStore_ReplaceMembership(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	task := createTask(t, db, b, "Members")
	store := NewTaskNodeStore(db)

	require.NoError(t, store.ReplaceMembership(ctx, task.ID, hierarchy.RelationSubscribedUsers, []string{"u1", "u2"}))
	fetched, err := NewSQLiteTaskRepo(db).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, fetched.SubscribedUsers)

	err = store.ReplaceMembership(ctx, task.ID, hierarchy.Relation("watchers"), nil)
	assert.ErrorIs(t, err, hierarchy.ErrUnsupportedField)
}

func TestSubtaskNodeStore_LookupIsScoped(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	taskA := createTask(t, db, b, "A")
	taskB := createTask(t, db, b, "B")
	sub := testutil.NewTestSubtask(taskA.ID, "Sub")
	require.NoError(t, NewSQLiteSubtaskRepo(db).Create(ctx, sub))
	store := NewSubtaskNodeStore(db)

	ref, ok, err := store.Lookup(ctx, taskA.ID, sub.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, taskA.ID, ref.Scope)

	_, ok, err = store.Lookup(ctx, taskB.ID, sub.ID)
	require.NoError(t, err)
	assert.False(t, ok, "subtask of another task is invisible")
}

func TestSubtaskNodeStore_WriteAndMembership(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	task := createTask(t, db, b, "Owner")
	sub := testutil.NewTestSubtask(task.ID, "Sub")
	require.NoError(t, NewSQLiteSubtaskRepo(db).Create(ctx, sub))
	store := NewSubtaskNodeStore(db)

	require.NoError(t, store.Write(ctx, sub.ID, map[string]any{"order_column": 4, "parent_id": nil}))
	fetched, err := NewSQLiteSubtaskRepo(db).GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, fetched.OrderColumn)

	assert.ErrorIs(t, store.Write(ctx, sub.ID, map[string]any{"group_id": "g"}), hierarchy.ErrUnsupportedField)
	assert.ErrorIs(t, store.ReplaceMembership(ctx, sub.ID, hierarchy.RelationLabels, nil), hierarchy.ErrUnsupportedField)
}

// The mutator driven through the SQLite store keeps a chain acyclic.
func TestTaskNodeStore_WithMutator(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, db)
	n1 := createTask(t, db, b, "1")
	n2 := createTask(t, db, b, "2", testutil.WithParentID(n1.ID))
	n3 := createTask(t, db, b, "3", testutil.WithParentID(n2.ID))

	store := NewTaskNodeStore(db)
	m := hierarchy.NewMutator(hierarchy.VariantTask, store)

	ref, ok, err := store.Lookup(ctx, "", n1.ID)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := m.ApplyFieldUpdate(ctx, ref, hierarchy.SetParent{ParentID: &n3.ID})
	require.NoError(t, err)
	assert.Equal(t, hierarchy.OutcomeReject, res.Decision.Outcome)

	fetched, err := NewSQLiteTaskRepo(db).GetByID(ctx, n1.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.ParentID)
}

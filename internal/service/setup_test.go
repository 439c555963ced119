package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
	"github.com/alexanderramin/tasktree/internal/repository"
	"github.com/alexanderramin/tasktree/internal/testutil"
)

type recordingSink struct {
	mu     sync.Mutex
	events []hierarchy.Event
}

func (r *recordingSink) Publish(_ context.Context, e hierarchy.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) Events() []hierarchy.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hierarchy.Event(nil), r.events...)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// env bundles every service over one in-memory database.
type env struct {
	db       *sql.DB
	sink     *recordingSink
	observer *recordingObserver
	projects ProjectService
	groups   GroupService
	labels   LabelService
	tasks    TaskService
	subtasks SubtaskService
	logs     TimeLogService
	imports  ImportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newEnvWithUoW(database, testutil.NewTestUoW(database))
}

func newEnvWithUoW(database *sql.DB, uow db.UnitOfWork) *env {
	sink := &recordingSink{}
	obs := &recordingObserver{}
	cfg := HierarchyConfig{
		TaskMaxHops:    100,
		SubtaskMaxHops: 1000,
		Sink:           sink,
		Locks:          hierarchy.NewScopeLocks(),
	}

	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)

	return &env{
		db:       database,
		sink:     sink,
		observer: obs,
		projects: NewProjectService(projectRepo, uow, obs),
		groups:   NewGroupService(repository.NewSQLiteGroupRepo(database), uow, obs),
		labels:   NewLabelService(repository.NewSQLiteLabelRepo(database), projectRepo, obs),
		tasks:    NewTaskService(taskRepo, uow, cfg, obs),
		subtasks: NewSubtaskService(repository.NewSQLiteSubtaskRepo(database), uow, cfg, obs),
		logs:     NewTimeLogService(repository.NewSQLiteTimeLogRepo(database), taskRepo, obs),
		imports:  NewImportService(uow, obs),
	}
}

func (e *env) project(t *testing.T, name string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name)
	p.ID = ""
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *env) task(t *testing.T, projectID, name string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(projectID, "", name, opts...)
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func (e *env) subtask(t *testing.T, taskID, name string, opts ...testutil.SubtaskOption) *domain.Subtask {
	t.Helper()
	sub := testutil.NewTestSubtask(taskID, name, opts...)
	_, err := e.subtasks.Create(context.Background(), sub)
	require.NoError(t, err)
	return sub
}

func strPtr(s string) *string { return &s }

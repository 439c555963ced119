package service

import (
	"context"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
	"github.com/alexanderramin/tasktree/internal/repository"
)

// HierarchyConfig controls how task and subtask trees are mutated. Task
// and subtask services built for one database should share Locks.
type HierarchyConfig struct {
	TaskMaxHops    int
	SubtaskMaxHops int
	Sink           hierarchy.Sink
	Locks          *hierarchy.ScopeLocks
}

// treeWriter runs mutator calls inside a transaction while holding the
// lock of the affected tree. Events reach the sink only after commit.
type treeWriter struct {
	uow db.UnitOfWork
	cfg HierarchyConfig
}

func newTreeWriter(uow db.UnitOfWork, cfg HierarchyConfig) *treeWriter {
	if cfg.Locks == nil {
		cfg.Locks = hierarchy.NewScopeLocks()
	}
	if cfg.Sink == nil {
		cfg.Sink = hierarchy.NoopSink{}
	}
	return &treeWriter{uow: uow, cfg: cfg}
}

type mutateFunc func(ctx context.Context, tx db.DBTX, m *hierarchy.Mutator) error

// withTasks mutates the task tree of one project.
func (w *treeWriter) withTasks(ctx context.Context, projectID string, fn mutateFunc) error {
	return w.run(ctx, "project:"+projectID, fn, func(tx db.DBTX, sink hierarchy.Sink) *hierarchy.Mutator {
		store := repository.NewTaskNodeStore(tx).WithinProject(projectID)
		return hierarchy.NewMutator(hierarchy.VariantTask, store,
			hierarchy.WithMaxHops(w.cfg.TaskMaxHops), hierarchy.WithSink(sink))
	})
}

// withSubtasks mutates the subtask tree of one task.
func (w *treeWriter) withSubtasks(ctx context.Context, taskID string, fn mutateFunc) error {
	return w.run(ctx, "task:"+taskID, fn, func(tx db.DBTX, sink hierarchy.Sink) *hierarchy.Mutator {
		return hierarchy.NewMutator(hierarchy.VariantSubtask, repository.NewSubtaskNodeStore(tx),
			hierarchy.WithMaxHops(w.cfg.SubtaskMaxHops), hierarchy.WithSink(sink))
	})
}

func (w *treeWriter) run(ctx context.Context, key string, fn mutateFunc, build func(db.DBTX, hierarchy.Sink) *hierarchy.Mutator) error {
	unlock := w.cfg.Locks.Lock(key)
	defer unlock()

	buf := &hierarchy.BufferedSink{}
	err := w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, tx, build(tx, buf))
	})
	if err != nil {
		buf.Discard()
		return err
	}
	buf.Flush(ctx, w.cfg.Sink)
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
	"github.com/alexanderramin/tasktree/internal/repository"
)

type subtaskService struct {
	subtasks repository.SubtaskRepo
	trees    *treeWriter
	observer UseCaseObserver
}

func NewSubtaskService(subtasks repository.SubtaskRepo, uow db.UnitOfWork, cfg HierarchyConfig, observers ...UseCaseObserver) SubtaskService {
	return &subtaskService{
		subtasks: subtasks,
		trees:    newTreeWriter(uow, cfg),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create inserts sub. A parent that is not a subtask of the same task is
// normalized to nil and reported in the returned decision.
func (s *subtaskService) Create(ctx context.Context, sub *domain.Subtask) (d hierarchy.Decision, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "subtask.create", start, err, map[string]any{"task_id": sub.TaskID, "outcome": string(d.Outcome)})
	}()

	if strings.TrimSpace(sub.Name) == "" {
		return hierarchy.Decision{}, fmt.Errorf("subtask name is required: %w", ErrInvalidInput)
	}
	if sub.EstimationMin < 0 {
		return hierarchy.Decision{}, fmt.Errorf("estimation must not be negative: %w", ErrInvalidInput)
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	err = s.trees.withSubtasks(ctx, sub.TaskID, func(ctx context.Context, tx db.DBTX, m *hierarchy.Mutator) error {
		if _, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, sub.TaskID); err != nil {
			return err
		}
		var err error
		d, err = m.ProposeParentChange(ctx, hierarchy.Ref{ID: sub.ID, Scope: sub.TaskID}, sub.ParentID)
		if err != nil {
			return err
		}
		if !d.Applied() {
			return fmt.Errorf("parent %s refused (%s): %w", *sub.ParentID, d.Reason, ErrInvalidInput)
		}
		sub.ParentID = d.ParentID
		return repository.NewSQLiteSubtaskRepo(tx).Create(ctx, sub)
	})
	if err != nil {
		return hierarchy.Decision{}, err
	}
	return d, nil
}

func (s *subtaskService) GetByID(ctx context.Context, id string) (*domain.Subtask, error) {
	return s.subtasks.GetByID(ctx, id)
}

func (s *subtaskService) ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error) {
	return s.subtasks.ListByTask(ctx, taskID)
}

func (s *subtaskService) UpdateField(ctx context.Context, id string, cmd hierarchy.Command) (res hierarchy.Result, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "subtask.update_field", start, err, map[string]any{"subtask_id": id, "field": cmd.Field()})
	}()

	sub, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		return hierarchy.Result{}, err
	}
	err = s.trees.withSubtasks(ctx, sub.TaskID, func(ctx context.Context, _ db.DBTX, m *hierarchy.Mutator) error {
		var err error
		res, err = m.ApplyFieldUpdate(ctx, hierarchy.Ref{ID: sub.ID, Scope: sub.TaskID}, cmd)
		return err
	})
	if err != nil {
		return hierarchy.Result{}, err
	}
	return res, nil
}

// Reorder applies a batch of parent and order changes within one task's
// subtasks. Subtasks of other tasks are skipped.
func (s *subtaskService) Reorder(ctx context.Context, taskID string, items []hierarchy.ReorderItem) (res hierarchy.BatchResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "subtask.reorder", start, err, map[string]any{
			"task_id": taskID, "items": len(items), "sanitized": res.Sanitized, "skipped": res.Skipped,
		})
	}()

	err = s.trees.withSubtasks(ctx, taskID, func(ctx context.Context, _ db.DBTX, m *hierarchy.Mutator) error {
		var err error
		res, err = m.BatchReorder(ctx, taskID, items)
		return err
	})
	return res, err
}

func (s *subtaskService) SetCompleted(ctx context.Context, id string, done bool) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "subtask.set_completed", start, err, map[string]any{"subtask_id": id, "done": done})
	}()

	sub, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if done == sub.IsCompleted() {
		return nil
	}
	var value *time.Time
	if done {
		now := time.Now().UTC()
		value = &now
	}
	return s.trees.withSubtasks(ctx, sub.TaskID, func(ctx context.Context, _ db.DBTX, m *hierarchy.Mutator) error {
		_, err := m.ApplyFieldUpdate(ctx, hierarchy.Ref{ID: sub.ID, Scope: sub.TaskID},
			hierarchy.SetField{Name: "completed_at", Value: value})
		return err
	})
}

// Delete removes the subtask. Its children are detached to the root.
func (s *subtaskService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "subtask.delete", start, err, map[string]any{"subtask_id": id}) }()

	sub, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.trees.withSubtasks(ctx, sub.TaskID, func(ctx context.Context, tx db.DBTX, _ *hierarchy.Mutator) error {
		return repository.NewSQLiteSubtaskRepo(tx).Delete(ctx, id)
	})
}

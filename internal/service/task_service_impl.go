package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
	"github.com/alexanderramin/tasktree/internal/repository"
)

type taskService struct {
	tasks    repository.TaskRepo
	trees    *treeWriter
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, cfg HierarchyConfig, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		trees:    newTreeWriter(uow, cfg),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create inserts t. An empty GroupID places the task in the project's
// first group.
func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "task.create", start, err, map[string]any{"project_id": t.ProjectID}) }()

	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name is required: %w", ErrInvalidInput)
	}
	if t.PricingType == "" {
		t.PricingType = domain.PricingHourly
	}
	if !domain.ValidPricingTypes[string(t.PricingType)] {
		return fmt.Errorf("pricing type %q: %w", t.PricingType, ErrInvalidInput)
	}
	t.ApplyPricingType(t.PricingType)
	if t.EstimationMin < 0 {
		return fmt.Errorf("estimation must not be negative: %w", ErrInvalidInput)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	return s.trees.withTasks(ctx, t.ProjectID, func(ctx context.Context, tx db.DBTX, m *hierarchy.Mutator) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, t.ProjectID); err != nil {
			return err
		}
		if err := resolveGroup(ctx, tx, t); err != nil {
			return err
		}
		if t.ParentID != nil {
			d, err := m.ProposeParentChange(ctx, hierarchy.Ref{ID: t.ID}, t.ParentID)
			if err != nil {
				return err
			}
			if d.Outcome != hierarchy.OutcomeAccept {
				return fmt.Errorf("parent %s refused (%s): %w", *t.ParentID, d.Reason, ErrInvalidInput)
			}
		}
		return repository.NewSQLiteTaskRepo(tx).Create(ctx, t)
	})
}

func resolveGroup(ctx context.Context, tx db.DBTX, t *domain.Task) error {
	groups := repository.NewSQLiteGroupRepo(tx)
	if t.GroupID == "" {
		list, err := groups.ListByProject(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("project has no groups: %w", ErrInvalidInput)
		}
		t.GroupID = list[0].ID
		return nil
	}
	return checkGroup(ctx, groups, t.ProjectID, t.GroupID)
}

func checkGroup(ctx context.Context, groups repository.GroupRepo, projectID, groupID string) error {
	g, err := groups.GetByID(ctx, groupID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("group %s not found: %w", groupID, ErrInvalidInput)
	}
	if err != nil {
		return err
	}
	if g.ProjectID != projectID {
		return fmt.Errorf("group %s belongs to another project: %w", groupID, ErrInvalidInput)
	}
	return nil
}

func checkLabels(ctx context.Context, tx db.DBTX, projectID string, ids []string) error {
	labels := repository.NewSQLiteLabelRepo(tx)
	for _, id := range ids {
		l, err := labels.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("label %s not found: %w", id, ErrInvalidInput)
		}
		if err != nil {
			return err
		}
		if l.ProjectID != projectID {
			return fmt.Errorf("label %s belongs to another project: %w", id, ErrInvalidInput)
		}
	}
	return nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	return s.tasks.ListChildren(ctx, parentID)
}

// UpdateField applies one field change. A refused parent is not an error:
// the result carries the decision and nothing is written.
func (s *taskService) UpdateField(ctx context.Context, id string, cmd hierarchy.Command) (res hierarchy.Result, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.update_field", start, err, map[string]any{"task_id": id, "field": cmd.Field()})
	}()

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return hierarchy.Result{}, err
	}

	err = s.trees.withTasks(ctx, task.ProjectID, func(ctx context.Context, tx db.DBTX, m *hierarchy.Mutator) error {
		switch c := cmd.(type) {
		case hierarchy.SetGroup:
			if err := checkGroup(ctx, repository.NewSQLiteGroupRepo(tx), task.ProjectID, c.GroupID); err != nil {
				return err
			}
		case hierarchy.ReplaceLabels:
			if err := checkLabels(ctx, tx, task.ProjectID, c.IDs); err != nil {
				return err
			}
		}
		var err error
		res, err = m.ApplyFieldUpdate(ctx, hierarchy.Ref{ID: task.ID}, cmd)
		return err
	})
	if err != nil {
		return hierarchy.Result{}, err
	}
	return res, nil
}

// Reorder applies a batch of parent and order changes within one project.
// Tasks of other projects are skipped; parents outside the project are
// sanitized to the root.
func (s *taskService) Reorder(ctx context.Context, projectID string, items []hierarchy.ReorderItem) (res hierarchy.BatchResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.reorder", start, err, map[string]any{
			"project_id": projectID, "items": len(items), "sanitized": res.Sanitized, "skipped": res.Skipped,
		})
	}()

	err = s.trees.withTasks(ctx, projectID, func(ctx context.Context, _ db.DBTX, m *hierarchy.Mutator) error {
		var err error
		res, err = m.BatchReorder(ctx, "", items)
		return err
	})
	return res, err
}

// SetCompleted stamps or clears completed_at. Completing a completed task
// keeps its original timestamp.
func (s *taskService) SetCompleted(ctx context.Context, id string, done bool) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.set_completed", start, err, map[string]any{"task_id": id, "done": done})
	}()

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if done {
		if task.IsCompleted() {
			return nil
		}
		task.MarkCompleted(now)
	} else if err := task.Reopen(now); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return s.trees.withTasks(ctx, task.ProjectID, func(ctx context.Context, _ db.DBTX, m *hierarchy.Mutator) error {
		_, err := m.ApplyFieldUpdate(ctx, hierarchy.Ref{ID: task.ID},
			hierarchy.SetField{Name: "completed_at", Value: task.CompletedAt})
		return err
	})
}

// Delete removes the task, its subtasks and time logs. Child tasks are
// detached to the root.
func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "task.delete", start, err, map[string]any{"task_id": id}) }()

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.trees.withTasks(ctx, task.ProjectID, func(ctx context.Context, tx db.DBTX, _ *hierarchy.Mutator) error {
		return repository.NewSQLiteTaskRepo(tx).Delete(ctx, id)
	})
}

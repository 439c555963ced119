package repository

import (
	"context"

	"github.com/alexanderramin/tasktree/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type GroupRepo interface {
	Create(ctx context.Context, g *domain.TaskGroup) error
	GetByID(ctx context.Context, id string) (*domain.TaskGroup, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.TaskGroup, error)
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListByGroup(ctx context.Context, groupID string) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	ReplaceLabels(ctx context.Context, taskID string, labelIDs []string) error
	ReplaceSubscribers(ctx context.Context, taskID string, userIDs []string) error
	Delete(ctx context.Context, id string) error
	IDsWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
}

type SubtaskRepo interface {
	Create(ctx context.Context, s *domain.Subtask) error
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error)
	Update(ctx context.Context, s *domain.Subtask) error
	Delete(ctx context.Context, id string) error
	IDsWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
}

type LabelRepo interface {
	Create(ctx context.Context, l *domain.Label) error
	GetByID(ctx context.Context, id string) (*domain.Label, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Label, error)
}

type TimeLogRepo interface {
	Create(ctx context.Context, l *domain.TimeLog) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.TimeLog, error)
	TotalMinutesByTask(ctx context.Context, taskID string) (int, error)
	Delete(ctx context.Context, id string) error
}

package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
	"github.com/alexanderramin/tasktree/internal/importer"
)

// ErrInvalidInput marks requests rejected before any write.
var ErrInvalidInput = errors.New("invalid input")

// DefaultGroupNames are created with every new project.
var DefaultGroupNames = []string{"To do", "Doing", "Done"}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type GroupService interface {
	Create(ctx context.Context, g *domain.TaskGroup) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.TaskGroup, error)
	Delete(ctx context.Context, id string) error
}

type LabelService interface {
	Create(ctx context.Context, l *domain.Label) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Label, error)
}

type TaskService interface {
	// Create inserts t. A requested parent is checked with the same rules
	// as a reparent; an unacceptable parent fails with ErrInvalidInput.
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ResolveID accepts a full ID or a unique prefix.
	ResolveID(ctx context.Context, ref string) (string, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	UpdateField(ctx context.Context, id string, cmd hierarchy.Command) (hierarchy.Result, error)
	Reorder(ctx context.Context, projectID string, items []hierarchy.ReorderItem) (hierarchy.BatchResult, error)
	SetCompleted(ctx context.Context, id string, done bool) error
	Delete(ctx context.Context, id string) error
}

type SubtaskService interface {
	// Create inserts s. A parent outside s's task is dropped, not refused.
	Create(ctx context.Context, s *domain.Subtask) (hierarchy.Decision, error)
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	ResolveID(ctx context.Context, ref string) (string, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error)
	UpdateField(ctx context.Context, id string, cmd hierarchy.Command) (hierarchy.Result, error)
	Reorder(ctx context.Context, taskID string, items []hierarchy.ReorderItem) (hierarchy.BatchResult, error)
	SetCompleted(ctx context.Context, id string, done bool) error
	Delete(ctx context.Context, id string) error
}

type TimeLogService interface {
	Log(ctx context.Context, l *domain.TimeLog) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.TimeLog, error)
	TotalByTask(ctx context.Context, taskID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project      *domain.Project
	GroupCount   int
	LabelCount   int
	TaskCount    int
	SubtaskCount int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
